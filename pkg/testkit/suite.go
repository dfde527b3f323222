package testkit

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aircon-store/storefront/pkg/router"
)

// ConfigEntry is one API group in a master test_scenarios.json.
type ConfigEntry struct {
	ServiceName       string `json:"serviceName"`
	FilePath          string `json:"filePath"`
	ScenariosFileName string `json:"scenariosFileName"`
	ServiceURL        string `json:"serviceUrl"`
	HTTPMethodType    string `json:"httpMethodType"`
	// WorkflowService is the key of the handler in the map given to RunSuite.
	WorkflowService string `json:"workflowService"`
}

// RunSuite mounts each entry's handler on a fresh router and runs the
// entry's scenario array through one Flow.
func RunSuite(t *testing.T, masterConfigPath string, handlers map[string]http.HandlerFunc) {
	t.Helper()

	absMasterPath, err := filepath.Abs(masterConfigPath)
	if err != nil {
		t.Fatalf("testkit: resolve master config path %q: %v", masterConfigPath, err)
	}
	data, err := os.ReadFile(absMasterPath)
	if err != nil {
		t.Fatalf("testkit: read master config %q: %v", absMasterPath, err)
	}
	var entries []ConfigEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("testkit: parse master config %q: %v", absMasterPath, err)
	}

	baseDir := filepath.Dir(absMasterPath)

	for _, entry := range entries {
		entry := entry
		t.Run(entry.ServiceName, func(t *testing.T) {
			handlerFunc, ok := handlers[entry.WorkflowService]
			if !ok {
				t.Fatalf("testkit: handler %q not found in provided map", entry.WorkflowService)
			}

			url := entry.ServiceURL
			if url != "" && url[0] != '/' {
				url = "/" + url
			}
			method := strings.ToUpper(entry.HTTPMethodType)
			r := router.New()
			switch method {
			case http.MethodPost:
				r.Post(url, entry.WorkflowService, handlerFunc)
			case http.MethodPut:
				r.Put(url, entry.WorkflowService, handlerFunc)
			case http.MethodPatch:
				r.Patch(url, entry.WorkflowService, handlerFunc)
			case http.MethodDelete:
				r.Delete(url, entry.WorkflowService, handlerFunc)
			default:
				method = http.MethodGet
				r.Get(url, entry.WorkflowService, handlerFunc)
			}

			scenarioPath := filepath.Join(baseDir, entry.FilePath, entry.ScenariosFileName)
			if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
				scenarioPath = filepath.Join(entry.FilePath, entry.ScenariosFileName)
			}
			scenarios, err := LoadScenarioArray(scenarioPath)
			if err != nil {
				t.Fatalf("testkit: load scenario array %q: %v", scenarioPath, err)
			}

			flow := NewFlow(r.Handler())
			for _, s := range scenarios {
				s := s
				if s.RequestURL == "" {
					s.RequestURL = url
				}
				if s.RequestMethod == "" || s.RequestMethod == http.MethodGet && method != http.MethodGet {
					s.RequestMethod = method
				}
				t.Run(s.Name, func(t *testing.T) { flow.Run(t, s) })
			}
		})
	}
}
