// Package graphql exposes the public catalogue as a read-only GraphQL API
// at /graphql.
package graphql

import (
	"net/url"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/aircon-store/storefront/app/models"
	"github.com/aircon-store/storefront/app/services"
	gql "github.com/aircon-store/storefront/pkg/graphql"
)

// Services are the read paths the schema resolves against.
type Services struct {
	Catalog  *services.CatalogService
	Products *services.ProductService
	Settings *services.SettingsService
}

var specType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Specification",
	Fields: graphql.Fields{
		"key":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"value": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

func product(p graphql.ResolveParams) models.Product {
	switch v := p.Source.(type) {
	case models.Product:
		return v
	case *models.Product:
		return *v
	}
	return models.Product{}
}

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"originalPrice": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if op := product(p).OriginalPrice; op != nil {
					return float64(*op), nil
				}
				return nil, nil
			},
		},
		"brand":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"horsepower": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"inverter":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"images": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return []string(product(p).Images), nil
			},
		},
		"benefits": &graphql.Field{
			Type: graphql.NewList(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return []string(product(p).Benefits), nil
			},
		},
		"specifications": &graphql.Field{
			Type: graphql.NewList(specType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				src := product(p)
				return []models.Spec(src.Specs()), nil
			},
		},
		"status":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"featured": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return product(p).CreatedAt.UTC().Format(time.RFC3339), nil
			},
		},
	},
})

var filtersType = graphql.NewObject(graphql.ObjectConfig{
	Name: "FilterOptions",
	Fields: graphql.Fields{
		"brands":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"horsepowers": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var settingsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Settings",
	Fields: graphql.Fields{
		"phoneNumber": &graphql.Field{Type: graphql.String},
		"zaloNumber":  &graphql.Field{Type: graphql.String},
		"facebookUrl": &graphql.Field{Type: graphql.String},
		"zaloChatUrl": &graphql.Field{Type: graphql.String},
	},
})

// filterArgs maps GraphQL arguments onto the same query values the REST
// endpoint parses, so both surfaces share one set of rules.
func filterArgs(args map[string]interface{}) url.Values {
	q := url.Values{}
	for _, k := range []string{"brand", "horsepower", "search"} {
		if s, ok := args[k].(string); ok {
			q.Set(k, s)
		}
	}
	if b, ok := args["inverter"].(bool); ok {
		q.Set("inverter", strconv.FormatBool(b))
	}
	for _, k := range []string{"minPrice", "maxPrice"} {
		if f, ok := args[k].(float64); ok {
			q.Set(k, strconv.FormatFloat(f, 'f', -1, 64))
		}
	}
	if n, ok := args["limit"].(int); ok {
		q.Set("limit", strconv.Itoa(n))
	}
	if c, ok := args["cursor"].(string); ok {
		q.Set("cursor", c)
	}
	return q
}

// NewSchema builds the catalogue schema.
func NewSchema(s Services) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"brand":      &graphql.ArgumentConfig{Type: graphql.String},
					"horsepower": &graphql.ArgumentConfig{Type: graphql.String},
					"inverter":   &graphql.ArgumentConfig{Type: graphql.Boolean},
					"minPrice":   &graphql.ArgumentConfig{Type: graphql.Float},
					"maxPrice":   &graphql.ArgumentConfig{Type: graphql.Float},
					"search":     &graphql.ArgumentConfig{Type: graphql.String},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int},
					"cursor":     &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := s.Catalog.Products(p.Context, services.ParseProductFilter(filterArgs(p.Args)))
					if err != nil {
						return nil, err
					}
					return page.Items, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					prod, err := s.Products.Resolve(p.Context, id)
					if err != nil {
						return nil, err
					}
					return prod, nil
				},
			},
			"filters": &graphql.Field{
				Type: filtersType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.Catalog.FilterOptions(p.Context)
				},
			},
			"settings": &graphql.Field{
				Type: settingsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return s.Settings.Get(p.Context), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}
