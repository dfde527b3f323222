package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/pkg/logger"
	"github.com/aircon-store/storefront/pkg/metrics"
)

// Settings is the public contact configuration.
type Settings struct {
	PhoneNumber string `json:"phoneNumber"`
	ZaloNumber  string `json:"zaloNumber"`
	FacebookURL string `json:"facebookUrl"`
	ZaloChatURL string `json:"zaloChatUrl"`
}

// ZaloChatURL builds the direct chat link from the digits of a Zalo number.
func ZaloChatURL(zalo string) string {
	var b strings.Builder
	for _, r := range zalo {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return "https://zalo.me/" + b.String()
}

// SettingsResolver is one strategy in the settings chain. ok=false passes
// to the next strategy.
type SettingsResolver interface {
	Name() string
	Resolve(ctx context.Context) (s Settings, ok bool, err error)
}

// SiteSettingsResolver reads the newest SiteSettings row.
type SiteSettingsResolver struct {
	Repo *repositories.SettingsRepository
}

func (SiteSettingsResolver) Name() string { return "site_settings" }

func (r SiteSettingsResolver) Resolve(ctx context.Context) (Settings, bool, error) {
	row, err := r.Repo.Latest(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return Settings{}, false, nil
	}
	if err != nil {
		return Settings{}, false, err
	}
	return Settings{PhoneNumber: row.PhoneNumber, ZaloNumber: row.ZaloNumber, FacebookURL: row.FacebookURL}, true, nil
}

// LegacyResolver reads the key/value table. It answers when at least one
// key exists and fills the rest from Defaults.
type LegacyResolver struct {
	Repo     *repositories.SettingsRepository
	Defaults Settings
}

func (LegacyResolver) Name() string { return "legacy" }

func (r LegacyResolver) Resolve(ctx context.Context) (Settings, bool, error) {
	vals, err := r.Repo.Legacy(ctx, models.SettingPhone, models.SettingZalo, models.SettingFacebook)
	if err != nil {
		return Settings{}, false, err
	}
	if len(vals) == 0 {
		return Settings{}, false, nil
	}
	pick := func(key, fallback string) string {
		if v := strings.TrimSpace(vals[key]); v != "" {
			return v
		}
		return fallback
	}
	return Settings{
		PhoneNumber: pick(models.SettingPhone, r.Defaults.PhoneNumber),
		ZaloNumber:  pick(models.SettingZalo, r.Defaults.ZaloNumber),
		FacebookURL: pick(models.SettingFacebook, r.Defaults.FacebookURL),
	}, true, nil
}

// DefaultResolver always answers with fixed values.
type DefaultResolver struct {
	Defaults Settings
}

func (DefaultResolver) Name() string { return "default" }

func (r DefaultResolver) Resolve(context.Context) (Settings, bool, error) {
	return r.Defaults, true, nil
}

// SettingsInput is the admin settings form. All fields are required.
type SettingsInput struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,max=50"`
	ZaloNumber  string `json:"zaloNumber" validate:"required,max=50"`
	FacebookURL string `json:"facebookUrl" validate:"required,max=1024"`
}

// SettingsService resolves settings through an ordered chain and writes
// both the SiteSettings row and the legacy keys.
type SettingsService struct {
	repo     *repositories.SettingsRepository
	defaults Settings
	chain    []SettingsResolver
}

func NewSettingsService(repo *repositories.SettingsRepository, defaults Settings) *SettingsService {
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
		chain: []SettingsResolver{
			SiteSettingsResolver{Repo: repo},
			LegacyResolver{Repo: repo, Defaults: defaults},
			DefaultResolver{Defaults: defaults},
		},
	}
}

// WithChain replaces the resolver chain.
func (s *SettingsService) WithChain(chain ...SettingsResolver) *SettingsService {
	s.chain = chain
	return s
}

// Get walks the chain and returns the first answer. A failing strategy
// ends the walk with the defaults; Get never returns an error.
func (s *SettingsService) Get(ctx context.Context) Settings {
	out, source := s.defaults, "default"
	for _, r := range s.chain {
		v, ok, err := r.Resolve(ctx)
		if err != nil {
			logger.WithCtx(ctx).Error("settings: resolver failed, using defaults", "resolver", r.Name(), "error", err)
			out, source = s.defaults, "error"
			break
		}
		if ok {
			out, source = v, r.Name()
			break
		}
	}
	metrics.SettingsSource.WithLabelValues(source).Inc()
	out.ZaloChatURL = ZaloChatURL(out.ZaloNumber)
	return out
}

// Update writes the SiteSettings row and the legacy keys together.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (Settings, error) {
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.ZaloNumber = strings.TrimSpace(in.ZaloNumber)
	in.FacebookURL = strings.TrimSpace(in.FacebookURL)
	if in.PhoneNumber == "" || in.ZaloNumber == "" || in.FacebookURL == "" {
		return Settings{}, check(&in, "All fields are required")
	}
	if err := check(&in, ""); err != nil {
		return Settings{}, err
	}

	row, err := s.repo.Write(ctx, in.PhoneNumber, in.ZaloNumber, in.FacebookURL)
	if err != nil {
		return Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return Settings{
		PhoneNumber: row.PhoneNumber,
		ZaloNumber:  row.ZaloNumber,
		FacebookURL: row.FacebookURL,
		ZaloChatURL: ZaloChatURL(row.ZaloNumber),
	}, nil
}
