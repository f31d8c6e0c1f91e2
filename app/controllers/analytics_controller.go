package controllers

import (
	"net/http"
	"strconv"

	gql "github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/genosys/app/services"
	"github.com/shashiranjanraj/genosys/pkg/graphql"
	"github.com/shashiranjanraj/genosys/pkg/response"
)

// AnalyticsController serves the dashboard queries over REST and GraphQL.
// Handlers never fail: the service already degrades to zeroed results when
// storage is down.
type AnalyticsController struct {
	service *services.AnalyticsService
}

func NewAnalyticsController(service *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{service: service}
}

// Overview handles GET /api/admin/analytics/overview?days=30.
func (c *AnalyticsController) Overview(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.service.GetOverview(queryDays(r)))
}

// Timeline handles GET /api/admin/analytics/timeline?days=30.
func (c *AnalyticsController) Timeline(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.service.GetTimeline(queryDays(r)))
}

// Cities handles GET /api/admin/analytics/cities?days=30.
func (c *AnalyticsController) Cities(w http.ResponseWriter, r *http.Request) {
	response.Success(w, c.service.GetCities(queryDays(r)))
}

func queryDays(r *http.Request) int {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	return days
}

// GraphQLHandler builds the analytics GraphQL endpoint. Field names match
// the REST payload's json keys so dashboard code can switch transports
// without renaming anything.
func (c *AnalyticsController) GraphQLHandler() (http.HandlerFunc, error) {
	bucketType := gql.NewObject(gql.ObjectConfig{
		Name: "Bucket",
		Fields: gql.Fields{
			"label": &gql.Field{Type: gql.String},
			"count": &gql.Field{Type: gql.Int},
		},
	})

	deviceType := gql.NewObject(gql.ObjectConfig{
		Name: "DeviceCounts",
		Fields: gql.Fields{
			"mobile":  &gql.Field{Type: gql.Int},
			"tablet":  &gql.Field{Type: gql.Int},
			"desktop": &gql.Field{Type: gql.Int},
		},
	})

	activityType := gql.NewObject(gql.ObjectConfig{
		Name: "ActivityEntry",
		Fields: gql.Fields{
			"action":      &gql.Field{Type: gql.String},
			"user_email":  &gql.Field{Type: gql.String},
			"details":     &gql.Field{Type: gql.String},
			"occurred_at": &gql.Field{Type: gql.DateTime},
		},
	})

	overviewType := gql.NewObject(gql.ObjectConfig{
		Name: "Overview",
		Fields: gql.Fields{
			"days":                       &gql.Field{Type: gql.Int},
			"total_page_views":           &gql.Field{Type: gql.Int},
			"unique_visitors":            &gql.Field{Type: gql.Int},
			"top_pages":                  &gql.Field{Type: gql.NewList(bucketType)},
			"top_countries":              &gql.Field{Type: gql.NewList(bucketType)},
			"top_cities":                 &gql.Field{Type: gql.NewList(bucketType)},
			"top_browsers":               &gql.Field{Type: gql.NewList(bucketType)},
			"top_os":                     &gql.Field{Type: gql.NewList(bucketType)},
			"devices":                    &gql.Field{Type: deviceType},
			"bounce_rate":                &gql.Field{Type: gql.Float},
			"avg_session_duration":       &gql.Field{Type: gql.Float},
			"avg_page_views_per_session": &gql.Field{Type: gql.Float},
			"user_registrations":         &gql.Field{Type: gql.Int},
			"orders_placed":              &gql.Field{Type: gql.Int},
			"conversion_rate":            &gql.Field{Type: gql.Float},
			"recent_activity":            &gql.Field{Type: gql.NewList(activityType)},
		},
	})

	timelinePointType := gql.NewObject(gql.ObjectConfig{
		Name: "TimelinePoint",
		Fields: gql.Fields{
			"date":            &gql.Field{Type: gql.String},
			"page_views":      &gql.Field{Type: gql.Int},
			"unique_visitors": &gql.Field{Type: gql.Int},
		},
	})

	daysArg := gql.FieldConfigArgument{
		"days": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 0},
	}
	argDays := func(p gql.ResolveParams) int {
		days, _ := p.Args["days"].(int)
		return days
	}

	rootQuery := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"overview": &gql.Field{
				Type: overviewType,
				Args: daysArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return c.service.GetOverview(argDays(p)), nil
				},
			},
			"timeline": &gql.Field{
				Type: gql.NewList(timelinePointType),
				Args: daysArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return c.service.GetTimeline(argDays(p)), nil
				},
			},
			"cities": &gql.Field{
				Type: gql.NewList(bucketType),
				Args: daysArg,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					return c.service.GetCities(argDays(p)), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(rootQuery)
	if err != nil {
		return nil, err
	}
	return graphql.Handler(schema), nil
}
