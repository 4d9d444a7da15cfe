package schemas

// WidgetConfig is the JSON query-and-render description stored in a widget.
// It is validated before it ever reaches the database; field names go through
// a whitelist, values are always bound as query parameters.
type WidgetConfig struct {
	Source    string         `json:"source" validate:"required,oneof=holdings"`
	Metric    string         `json:"metric" validate:"required"`
	Dimension string         `json:"dimension,omitempty"`
	Filters   []ConfigFilter `json:"filters,omitempty" validate:"max=8,dive"`
	Sort      string         `json:"sort,omitempty" validate:"omitempty,oneof=asc desc"`
	Limit     int            `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	Chart     ChartOptions   `json:"chart" validate:"required"`
}

type ConfigFilter struct {
	Field string `json:"field" validate:"required"`
	Op    string `json:"op" validate:"required,oneof=eq neq"`
	Value string `json:"value" validate:"required,max=64"`
}

type ChartOptions struct {
	Kind  string `json:"kind" validate:"required,oneof=line bar pie table card"`
	Title string `json:"title,omitempty" validate:"max=120"`
}
