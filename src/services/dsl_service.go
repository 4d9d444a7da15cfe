package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"kitemate/src/schemas"
	"kitemate/src/utils"

	"github.com/go-playground/validator/v10"
)

// Whitelists for the widget configuration. Field names from a config are only
// ever mapped through these tables; they are never interpolated into SQL.
var (
	allowedMetrics = map[string]string{
		"market_value":   "SUM(last_price * quantity)",
		"invested_value": "SUM(average_price * quantity)",
		"unrealized_pnl": "SUM(unrealized_pnl)",
		"quantity":       "SUM(quantity)",
	}
	allowedDimensions = map[string]string{
		"symbol":   "symbol",
		"sector":   "sector",
		"exchange": "exchange",
	}
	allowedFilterFields = map[string]string{
		"symbol":   "symbol",
		"sector":   "sector",
		"exchange": "exchange",
	}
)

type DSLServiceI interface {
	ValidateConfig(config *schemas.WidgetConfig) error
	ParseModelOutput(content string) (*schemas.WidgetConfig, error)
}

// DSLService validates widget configurations before storage or execution.
type DSLService struct {
	validate *validator.Validate
}

func NewDSLService() *DSLService {
	return &DSLService{validate: validator.New()}
}

// ValidateConfig runs tag validation and then the whitelist checks.
func (s *DSLService) ValidateConfig(config *schemas.WidgetConfig) error {
	if err := s.validate.Struct(config); err != nil {
		return utils.InvalidArgument(validationDetail(err))
	}

	if _, ok := allowedMetrics[config.Metric]; !ok {
		return utils.InvalidArgument(fmt.Sprintf("metric %q is not supported", config.Metric))
	}
	if config.Dimension != "" {
		if _, ok := allowedDimensions[config.Dimension]; !ok {
			return utils.InvalidArgument(fmt.Sprintf("dimension %q is not supported", config.Dimension))
		}
	}
	for _, filter := range config.Filters {
		if _, ok := allowedFilterFields[filter.Field]; !ok {
			return utils.InvalidArgument(fmt.Sprintf("filter field %q is not supported", filter.Field))
		}
	}

	// Pie and line charts need a dimension to spread values over.
	if (config.Chart.Kind == "pie" || config.Chart.Kind == "line" || config.Chart.Kind == "bar") && config.Dimension == "" {
		return utils.InvalidArgument(fmt.Sprintf("chart kind %q requires a dimension", config.Chart.Kind))
	}
	return nil
}

// ParseModelOutput extracts and validates a widget configuration from raw
// model output. Code fences around the JSON are tolerated.
func (s *DSLService) ParseModelOutput(content string) (*schemas.WidgetConfig, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var config schemas.WidgetConfig
	if err := json.Unmarshal([]byte(cleaned), &config); err != nil {
		return nil, utils.InvalidArgument("model output is not valid JSON")
	}
	if err := s.ValidateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	ok := false
	if e, isValidation := err.(validator.ValidationErrors); isValidation {
		verrs, ok = e, true
	}
	if !ok || len(verrs) == 0 {
		return "config failed validation"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "config failed validation: " + strings.Join(fields, ", ")
}
