package ports

import (
	"trendfit/domain/dataset"
)

// TableReaderPort loads tabular input for the CLI
type TableReaderPort interface {
	ReadTable() (*dataset.Table, error)
}
