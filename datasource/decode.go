package datasource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libeasygo/cuserror"
	"github.com/spf13/cast"
)

type DataType string

const (
	DataTypeJSON DataType = "json"
	DataTypeCSV  DataType = "csv"
	DataTypeTSV  DataType = "tsv"
	DataTypeTXT  DataType = "txt"
)

func ParseDataType(s string) (DataType, error) {
	switch dt := DataType(strings.ToLower(strings.TrimSpace(s))); dt {
	case DataTypeJSON, DataTypeCSV, DataTypeTSV, DataTypeTXT:
		return dt, nil
	case "":
		return DataTypeJSON, nil
	}

	return "", commerr.ErrInvalidArgument
}

// Decode turns a payload into values keyed by unix seconds. json payloads are objects mapping a
// timestamp to a value; csv and tsv use the first two columns and may start with a header row;
// txt holds one "timestamp value" pair per line.
func Decode(dataType DataType, raw []byte) (map[int64]float64, error) {
	switch dataType {
	case DataTypeJSON, "":
		return decodeJSON(raw)
	case DataTypeCSV:
		return decodeDelimited(raw, ',')
	case DataTypeTSV:
		return decodeDelimited(raw, '\t')
	case DataTypeTXT:
		return decodeText(raw)
	}

	return nil, commerr.ErrInvalidArgument
}

func decodeJSON(raw []byte) (map[int64]float64, error) {
	var m map[string]interface{}

	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	values := make(map[int64]float64, len(m))

	for k, v := range m {
		ts, err := cast.ToInt64E(k)
		if err != nil {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("bad timestamp %q", k))
		}

		val, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("bad value for %s: %v", k, v))
		}

		values[ts] = val
	}

	return values, nil
}

func decodeDelimited(raw []byte, comma rune) (map[int64]float64, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	values := make(map[int64]float64)

	for row := 0; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		if len(record) < 2 {
			continue
		}

		ts, err := cast.ToInt64E(strings.TrimSpace(record[0]))
		if err != nil {
			if row == 0 {
				continue
			}

			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("row %d: bad timestamp %q", row, record[0]))
		}

		val, err := cast.ToFloat64E(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("row %d: bad value %q", row, record[1]))
		}

		values[ts] = val
	}

	return values, nil
}

func decodeText(raw []byte) (map[int64]float64, error) {
	values := make(map[int64]float64)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if len(fields) < 2 {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("line %d: want timestamp and value", line))
		}

		ts, err := cast.ToInt64E(fields[0])
		if err != nil {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("line %d: bad timestamp %q", line, fields[0]))
		}

		val, err := cast.ToFloat64E(fields[1])
		if err != nil {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("line %d: bad value %q", line, fields[1]))
		}

		values[ts] = val
	}

	return values, scanner.Err()
}

// ExpandURI fills {{t:start}} and {{t:end}} with unix seconds and {{d:start}} and {{d:end}} with
// RFC 3339 dates.
func ExpandURI(tpl string, start, end time.Time) string {
	return strings.NewReplacer(
		"{{t:start}}", cast.ToString(start.Unix()),
		"{{t:end}}", cast.ToString(end.Unix()),
		"{{d:start}}", start.Format(time.RFC3339),
		"{{d:end}}", end.Format(time.RFC3339),
	).Replace(tpl)
}
