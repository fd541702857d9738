package utils

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type DateFormat string

const (
	FormatISO8601Date   DateFormat = "2006-01-02"
	FormatNorwegianDate DateFormat = "2.1.2006"
	FormatSlashDate     DateFormat = "2/1/2006"
	FormatDashDate      DateFormat = "2-1-2006"
	FormatISO8601       DateFormat = time.RFC3339
	FormatDateTime      DateFormat = "2006-01-02 15:04:05"
)

// DateValidator turns the date spellings visitors type into calendar dates.
// Day-first orders only; month-first dates are not accepted.
type DateValidator struct {
	supportedFormats []DateFormat
	standardFormat   DateFormat
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	Date           civil.Date
	StandardFormat string
	OriginalValue  string
}

func NewDateValidator() *DateValidator {
	return &DateValidator{
		supportedFormats: []DateFormat{
			FormatISO8601Date,
			FormatNorwegianDate,
			FormatSlashDate,
			FormatDashDate,
			FormatISO8601,
			FormatDateTime,
		},
		standardFormat: FormatISO8601Date,
	}
}

func (dv *DateValidator) ValidateAndConvert(input string) ValidationResult {
	result := ValidationResult{
		IsValid:       false,
		OriginalValue: input,
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range dv.supportedFormats {
		parsedTime, err := time.Parse(string(format), input)
		if err != nil {
			continue
		}

		// the calendar date as written, whatever offset came with it
		date := civil.DateOf(parsedTime)
		result.IsValid = true
		result.DetectedFormat = format
		result.Date = date
		result.StandardFormat = parsedTime.Format(string(dv.standardFormat))
		return result
	}

	return result
}

func (dv *DateValidator) ParseDate(input string) (civil.Date, error) {
	result := dv.ValidateAndConvert(input)
	if !result.IsValid {
		return civil.Date{}, fmt.Errorf("unrecognised date %q, use YYYY-MM-DD or DD.MM.YYYY", input)
	}
	return result.Date, nil
}

func (dv *DateValidator) GetSupportedFormats() []DateFormat {
	return dv.supportedFormats
}

// ValidateBatch validates multiple date strings and returns results
func (dv *DateValidator) ValidateBatch(inputs []string) []ValidationResult {
	results := make([]ValidationResult, len(inputs))
	for i, input := range inputs {
		results[i] = dv.ValidateAndConvert(input)
	}
	return results
}
