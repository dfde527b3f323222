package seeders

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/config"
	"github.com/aircon-store/storefront/pkg/slug"
)

func init() {
	Register("admin", seedAdmin)
	Register("brands", seedBrands)
	Register("products", seedProducts)
	Register("banners", seedBanners)
	Register("settings", seedSettings)
}

func seedAdmin(ctx context.Context, db *gorm.DB) error {
	users := repositories.NewUserRepository(db)
	taken, err := users.EmailTaken(ctx, config.AdminEmail())
	if err != nil || taken {
		return err
	}
	_, err = services.NewAuthService(users).CreateAdmin(ctx, services.AdminInput{
		Name:     "Administrator",
		Email:    config.AdminEmail(),
		Password: config.AdminPassword(),
	})
	return err
}

func seedBrands(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewBrandRepository(db)
	svc := services.NewBrandService(repo)
	existing, err := repo.List(ctx, false)
	if err != nil {
		return err
	}
	for i, name := range []string{"Daikin", "Mitsubishi Electric", "Panasonic"} {
		if hasBrand(existing, name) {
			continue
		}
		if _, err := svc.Create(ctx, services.BrandInput{Name: name, Order: i}); err != nil {
			return err
		}
	}
	return nil
}

func hasBrand(list []models.Brand, name string) bool {
	for _, b := range list {
		if b.Name == name {
			return true
		}
	}
	return false
}

func price(n int64) *int64 { return &n }

var demoProducts = []services.ProductInput{
	{
		Name:          "Daikin Inverter 1HP FTKC35",
		Description:   "Máy lạnh Daikin Inverter 1HP tiết kiệm điện, vận hành êm ái, phù hợp phòng dưới 15m².",
		Price:         price(10490000),
		OriginalPrice: price(11990000),
		Brand:         "Daikin",
		Horsepower:    "1HP",
		Inverter:      true,
		Images:        []string{"/images/products/daikin-ftkc35.jpg"},
		Specifications: models.Specs{
			{Key: "Công suất làm lạnh", Value: "9.000 BTU"},
			{Key: "Phạm vi làm lạnh", Value: "Dưới 15m²"},
			{Key: "Loại gas", Value: "R32"},
			{Key: "Xuất xứ", Value: "Thái Lan"},
			{Key: "Bảo hành", Value: "12 tháng"},
		},
		Benefits: []string{"Tiết kiệm điện đến 60%", "Làm lạnh nhanh", "Kháng khuẩn khử mùi"},
		Featured: true,
	},
	{
		Name:          "Mitsubishi Electric Inverter 1.5HP",
		Description:   "Máy lạnh Mitsubishi Electric Inverter 1.5HP bền bỉ, lọc không khí hiệu quả.",
		Price:         price(13990000),
		OriginalPrice: price(15490000),
		Brand:         "Mitsubishi Electric",
		Horsepower:    "1.5HP",
		Inverter:      true,
		Images:        []string{"/images/products/mitsubishi-15hp.jpg"},
		Specifications: models.Specs{
			{Key: "Công suất làm lạnh", Value: "12.000 BTU"},
			{Key: "Phạm vi làm lạnh", Value: "15 - 20m²"},
			{Key: "Loại gas", Value: "R32"},
			{Key: "Xuất xứ", Value: "Thái Lan"},
			{Key: "Độ ồn", Value: "21 dB"},
		},
		Benefits: []string{"Vận hành siêu êm", "Lọc bụi mịn PM2.5"},
		Featured: true,
	},
	{
		Name:        "Panasonic Inverter 2HP",
		Description: "Máy lạnh Panasonic Inverter 2HP công nghệ Nanoe-G, phù hợp phòng khách rộng.",
		Price:       price(18990000),
		Brand:       "Panasonic",
		Horsepower:  "2HP",
		Inverter:    true,
		Images:      []string{"/images/products/panasonic-2hp.jpg"},
		Specifications: models.Specs{
			{Key: "Công suất làm lạnh", Value: "18.000 BTU"},
			{Key: "Phạm vi làm lạnh", Value: "20 - 30m²"},
			{Key: "Loại gas", Value: "R32"},
			{Key: "Xuất xứ", Value: "Malaysia"},
			{Key: "Bảo hành", Value: "12 tháng"},
		},
		Benefits: []string{"Công nghệ Nanoe-G lọc không khí", "Chế độ Eco tiết kiệm điện"},
	},
}

func seedProducts(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewProductRepository(db)
	svc := services.NewProductService(repo, 1)
	for _, in := range demoProducts {
		_, err := svc.BySlug(ctx, slug.Make(in.Name))
		if err == nil {
			continue
		}
		if !errors.Is(err, services.ErrNotFound) {
			return err
		}
		if _, err := svc.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func seedBanners(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewBannerRepository(db)
	existing, err := repo.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	title := "Máy lạnh chính hãng - Giá tốt mỗi ngày"
	link := "/products"
	_, err = services.NewBannerService(repo).Create(ctx, services.BannerInput{
		ImageURL: "/images/banners/hero.jpg",
		Title:    &title,
		Link:     &link,
	})
	return err
}

func seedSettings(ctx context.Context, db *gorm.DB) error {
	repo := repositories.NewSettingsRepository(db)
	_, err := repo.Latest(ctx)
	if err == nil || !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	_, err = services.NewSettingsService(repo, services.Settings{}).Update(ctx, services.SettingsInput{
		PhoneNumber: config.ContactPhone(),
		ZaloNumber:  config.ContactZalo(),
		FacebookURL: config.ContactFacebook(),
	})
	return err
}
