package bind

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Values copies url values into the `query` tagged fields of dest, which
// must be a pointer to a struct.
//
// Scalars read the first value of their key. Slices collect every form a
// browser or client library sends:
//
//	ids=1&ids=2   ids[]=1&ids[]=2   ids[0]=1&ids[1]=2   ids=1,2
//
// Slice entries that do not parse are skipped. map[string]string fields
// collect bracketed keys, so sort[by]=name&sort[order]=desc becomes
// {"by": "name", "order": "desc"}.
func Values(values url.Values, dest interface{}) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: destination must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("query"), ",")
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		switch fv.Kind() {
		case reflect.Slice:
			setSlice(fv, sliceValues(values, name))
		case reflect.Map:
			if fv.Type().Key().Kind() != reflect.String || fv.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("bind: field %s: only map[string]string is supported", field.Name)
			}
			if m := mapValues(values, name); len(m) > 0 {
				fv.Set(reflect.ValueOf(m).Convert(fv.Type()))
			}
		default:
			raw := strings.TrimSpace(values.Get(name))
			if raw == "" {
				continue
			}
			if err := setScalar(fv, raw); err != nil {
				return fmt.Errorf("bind: %s: %w", name, err)
			}
		}
	}
	return nil
}

func sliceValues(values url.Values, name string) []string {
	raw := append(append([]string(nil), values[name]...), values[name+"[]"]...)

	type indexed struct {
		at  int
		val []string
	}
	var ordered []indexed
	for key, vals := range values {
		inner, ok := bracketed(key, name)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(inner); err == nil {
			ordered = append(ordered, indexed{n, vals})
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].at < ordered[j].at })
	for _, o := range ordered {
		raw = append(raw, o.val...)
	}

	var out []string
	for _, r := range raw {
		out = append(out, strings.Split(r, ",")...)
	}
	return lo.FilterMap(out, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}

func mapValues(values url.Values, name string) map[string]string {
	m := make(map[string]string)
	for key, vals := range values {
		inner, ok := bracketed(key, name)
		if !ok || inner == "" || len(vals) == 0 {
			continue
		}
		m[inner] = strings.TrimSpace(vals[0])
	}
	return m
}

// bracketed returns x for keys shaped name[x].
func bracketed(key, name string) (string, bool) {
	if !strings.HasPrefix(key, name+"[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	return key[len(name)+1 : len(key)-1], true
}

func setSlice(fv reflect.Value, raw []string) {
	if len(raw) == 0 {
		return
	}
	out := reflect.MakeSlice(fv.Type(), 0, len(raw))
	for _, r := range raw {
		elem := reflect.New(fv.Type().Elem()).Elem()
		if err := setScalar(elem, r); err != nil {
			continue
		}
		out = reflect.Append(out, elem)
	}
	if out.Len() > 0 {
		fv.Set(out)
	}
}

func setScalar(fv reflect.Value, raw string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}
