package models

import "ecommerce-keyword-report/internal/categorizer"

// Analysis is one categorized column together with where it came from.
type Analysis struct {
	Source  string             `json:"source"`
	File    string             `json:"file"`
	Sheet   string             `json:"sheet,omitempty"`
	Column  string             `json:"column"`
	Rows    int                `json:"rows"`
	Columns int                `json:"columns"`
	Result  categorizer.Result `json:"result"`
}

type Preview struct {
	File    string     `json:"file"`
	Sheet   string     `json:"sheet,omitempty"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
	CSV     string     `json:"csv,omitempty"`
}

type AnalyzeRequest struct {
	Source string `json:"source" validate:"required"`
	Column string `json:"column" validate:"required"`
	Sheet  string `json:"sheet,omitempty"`
}

type PreviewRequest struct {
	Source string `json:"source" validate:"required"`
	Sheet  string `json:"sheet,omitempty"`
	Rows   int    `json:"rows,omitempty" validate:"omitempty,min=1,max=1000"`
	CSV    bool   `json:"csv,omitempty"`
}

type ErrorResponse struct {
	Error     string   `json:"error"`
	Available []string `json:"available,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}
