package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	landmarkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Landmark",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"aliases":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"location": &graphql.Field{Type: geoPointType},
			"scale":    &graphql.Field{Type: graphql.Float},
			"altitude": &graphql.Field{Type: graphql.Float},
			"asset":    &graphql.Field{Type: graphql.String},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"code":  &graphql.Field{Type: graphql.String},
			"name":  &graphql.Field{Type: graphql.String},
			"parts": &graphql.Field{Type: graphql.Int},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"center":  &graphql.Field{Type: geoPointType},
			"zoom":    &graphql.Field{Type: graphql.Float},
			"pitch":   &graphql.Field{Type: graphql.Float},
			"bearing": &graphql.Field{Type: graphql.Float},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapState",
		Fields: graphql.Fields{
			"viewport":       &graphql.Field{Type: viewportType},
			"selected_id":    &graphql.Field{Type: graphql.String},
			"terrain_toggle": &graphql.Field{Type: graphql.Boolean},
			"models_toggle":  &graphql.Field{Type: graphql.Boolean},
			"loading":        &graphql.Field{Type: graphql.Boolean},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"landmarks": &graphql.Field{
				Type:        graphql.NewList(landmarkType),
				Description: "List the landmark catalog in manifest order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Landmarks.All(), nil
				},
			},
			"landmark": &graphql.Field{
				Type:        landmarkType,
				Description: "Get a landmark by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					lm, ok := deps.Landmarks.GetByID(id)
					if !ok {
						return nil, nil
					}
					return lm, nil
				},
			},
			"regions": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "List the merged administrative boundaries",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.Boundaries == nil {
						return nil, nil
					}
					return deps.Boundaries.Regions(), nil
				},
			},
			"regionAt": &graphql.Field{
				Type:        graphql.String,
				Description: "Region code under a point, or null",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.Boundaries == nil {
						return nil, nil
					}
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					code, ok := deps.Boundaries.FindAt(domain.GeoPoint{Lat: lat, Lon: lon})
					if !ok {
						return nil, nil
					}
					return code, nil
				},
			},
			"state": &graphql.Field{
				Type:        stateType,
				Description: "Current shared map state snapshot",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap := deps.State.Snapshot()
					return map[string]interface{}{
						"viewport":       snap.Viewport,
						"selected_id":    snap.SelectedID,
						"terrain_toggle": snap.TerrainToggle,
						"models_toggle":  snap.ModelsToggle,
						"loading":        snap.Loading,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
