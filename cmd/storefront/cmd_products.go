package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aircon-store/storefront/config"
	"github.com/aircon-store/storefront/internal/adminclient"
)

var patchFlags struct {
	server   string
	email    string
	password string
	id       string
	status   string
	featured string
	file     string
	workers  int
}

// storefront products:patch --server URL [--id ID --status S --featured B | --file patches.json]
//
// patches.json maps product ids to {"status": "...", "featured": true}.
var productsPatchCmd = &cobra.Command{
	Use:   "products:patch",
	Short: "Quick-edit product status/featured on a running server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := patchFlags
		patches, err := loadPatches()
		if err != nil {
			return err
		}
		if len(patches) == 0 {
			return errors.New("nothing to patch: pass --id with --status/--featured, or --file")
		}

		c := adminclient.New(f.server, adminclient.WithWorkers(f.workers))
		if err := c.Login(cmd.Context(), f.email, f.password); err != nil {
			return err
		}
		for id, p := range patches {
			c.Stage(id, p)
		}

		res := c.Save(cmd.Context())
		out := cmd.OutOrStdout()
		for _, id := range res.Succeeded {
			fmt.Fprintf(out, "  updated %s\n", id)
		}
		failed := make([]string, 0, len(res.Failed))
		for id := range res.Failed {
			failed = append(failed, id)
		}
		sort.Strings(failed)
		for _, id := range failed {
			fmt.Fprintf(out, "  FAILED  %s: %v\n", id, res.Failed[id])
		}
		if !res.OK() {
			return fmt.Errorf("%d of %d updates failed", len(res.Failed), len(patches))
		}
		return nil
	},
}

func loadPatches() (map[string]adminclient.Patch, error) {
	f := patchFlags
	patches := map[string]adminclient.Patch{}
	if f.file != "" {
		raw, err := os.ReadFile(f.file)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &patches); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.file, err)
		}
	}
	if f.id != "" {
		var p adminclient.Patch
		if f.status != "" {
			s := f.status
			p.Status = &s
		}
		if f.featured != "" {
			b, err := strconv.ParseBool(f.featured)
			if err != nil {
				return nil, fmt.Errorf("--featured: %w", err)
			}
			p.Featured = &b
		}
		if p.Status == nil && p.Featured == nil {
			return nil, errors.New("--id needs --status or --featured")
		}
		patches[f.id] = p
	}
	return patches, nil
}

func init() {
	fl := productsPatchCmd.Flags()
	fl.StringVar(&patchFlags.server, "server", "http://localhost:"+config.AppPort(), "storefront base URL")
	fl.StringVar(&patchFlags.email, "email", config.AdminEmail(), "admin email")
	fl.StringVar(&patchFlags.password, "password", config.AdminPassword(), "admin password")
	fl.StringVar(&patchFlags.id, "id", "", "product id")
	fl.StringVar(&patchFlags.status, "status", "", "active | inactive | out_of_stock")
	fl.StringVar(&patchFlags.featured, "featured", "", "true | false")
	fl.StringVar(&patchFlags.file, "file", "", "JSON file of id -> patch")
	fl.IntVar(&patchFlags.workers, "workers", 4, "concurrent requests")
}
