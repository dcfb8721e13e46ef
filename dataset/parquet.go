package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/parquet-go/parquet-go"
)

// Fixed columns of the unfiltered table. Every other column is an optional
// string holding one characteristic.
const (
	ColumnProductID      = "product_id"
	ColumnBasePrice      = "basePrice"
	ColumnBasePromoPrice = "basePromoPrice"
	ColumnSalePrice      = "salePrice"
)

const readBatchSize = 128

func priceColumns(p *models.PriceRecord) map[string]**float64 {
	return map[string]**float64{
		ColumnBasePrice:      &p.BasePrice,
		ColumnBasePromoPrice: &p.BasePromoPrice,
		ColumnSalePrice:      &p.SalePrice,
	}
}

func isReserved(column string) bool {
	switch column {
	case ColumnProductID, ColumnBasePrice, ColumnBasePromoPrice, ColumnSalePrice:
		return true
	}
	return false
}

// tableSchema builds a schema holding the union of characteristic keys.
func tableSchema(rows []models.RawRow) *parquet.Schema {
	group := parquet.Group{
		ColumnProductID:      parquet.String(),
		ColumnBasePrice:      parquet.Optional(parquet.Leaf(parquet.DoubleType)),
		ColumnBasePromoPrice: parquet.Optional(parquet.Leaf(parquet.DoubleType)),
		ColumnSalePrice:      parquet.Optional(parquet.Leaf(parquet.DoubleType)),
	}
	for _, row := range rows {
		for key := range row.Characteristics {
			if isReserved(key) {
				continue
			}
			if _, ok := group[key]; !ok {
				group[key] = parquet.Optional(parquet.String())
			}
		}
	}
	return parquet.NewSchema("unfiltered_features", group)
}

// WriteParquet writes rows to path as a single-file parquet table.
func WriteParquet(path string, rows []models.RawRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer f.Close()

	schema := tableSchema(rows)
	columns := schema.Columns()
	writer := parquet.NewWriter(f, schema)

	buffer := make([]parquet.Row, 0, len(rows))
	for _, row := range rows {
		buffer = append(buffer, encodeRow(row, columns))
	}
	if _, err := writer.WriteRows(buffer); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}

func encodeRow(row models.RawRow, columns [][]string) parquet.Row {
	prices := priceColumns(&row.Price)
	out := make(parquet.Row, len(columns))
	for i, path := range columns {
		name := path[0]
		switch {
		case name == ColumnProductID:
			out[i] = parquet.ValueOf(row.ProductID).Level(0, 0, i)
		case prices[name] != nil:
			if v := *prices[name]; v != nil {
				out[i] = parquet.ValueOf(*v).Level(0, 1, i)
			} else {
				out[i] = parquet.NullValue().Level(0, 0, i)
			}
		default:
			if v, ok := row.Characteristics[name]; ok {
				out[i] = parquet.ValueOf(v).Level(0, 1, i)
			} else {
				out[i] = parquet.NullValue().Level(0, 0, i)
			}
		}
	}
	return out
}

// ReadParquet loads a table written by WriteParquet. Null characteristic
// cells are left out of the row's map.
func ReadParquet(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	reader := parquet.NewReader(f)
	defer reader.Close()

	columns := reader.Schema().Columns()
	rows := make([]models.RawRow, 0, reader.NumRows())
	buffer := make([]parquet.Row, readBatchSize)
	for {
		n, err := reader.ReadRows(buffer)
		for _, values := range buffer[:n] {
			rows = append(rows, decodeRow(values, columns))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return rows, nil
}

func decodeRow(values parquet.Row, columns [][]string) models.RawRow {
	row := models.RawRow{Characteristics: models.Characteristics{}}
	prices := priceColumns(&row.Price)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		name := columns[v.Column()][0]
		switch {
		case name == ColumnProductID:
			row.ProductID = string(v.ByteArray())
		case prices[name] != nil:
			*prices[name] = models.Float(v.Double())
		default:
			row.Characteristics[name] = string(v.ByteArray())
		}
	}
	return row
}
