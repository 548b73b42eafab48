package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
)

// TableFormatter renders a struct as aligned "FIELD  value" rows. Field names
// come from json tags. Anything that is not a struct is written as JSON.
type TableFormatter struct{}

// Format formats data as a two-column table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return (&JSONFormatter{}).Format(w, data)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := columnName(field)
		if name == "-" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%v\n", strings.ToUpper(name), v.Field(i).Interface())
	}
	return tw.Flush()
}

func columnName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

