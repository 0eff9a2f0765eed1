package cfgstruct

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// RootVar 默认值中会被替换成根目录的变量
const RootVar = "$ROOT"

type BindOpt func(opts *bindOptions)

type bindOptions struct {
	release bool
	vars    map[string]string
}

// UseReleaseDefaults 优先使用 releaseDefault 标签
func UseReleaseDefaults() BindOpt {
	return func(opts *bindOptions) {
		opts.release = true
	}
}

// Root 设置默认值中 $ROOT 的值
func Root(dir string) BindOpt {
	return Var(RootVar, dir)
}

// Var 设置默认值中的变量替换
func Var(name, value string) BindOpt {
	return func(opts *bindOptions) {
		opts.vars[name] = value
	}
}

// Bind 按结构体字段注册flag，flag的值直接写入字段
//
//	type Config struct {
//		Address string `help:"监听地址" default:"0.0.0.0:8989"`
//		DB      db.Config
//	}
//
// 嵌套结构体的flag名用点号连接，例如 db.max-idle-conn
func Bind(flags *pflag.FlagSet, config any, opts ...BindOpt) {
	o := &bindOptions{vars: map[string]string{}}
	for _, opt := range opts {
		opt(o)
	}
	ptr := reflect.ValueOf(config)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("cfgstruct: invalid config type: %T", config))
	}
	bindStruct(flags, "", ptr.Elem(), o)
}

func bindStruct(flags *pflag.FlagSet, prefix string, val reflect.Value, o *bindOptions) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Tag.Get("internal") == "true" {
			continue
		}
		fieldVal := val.Field(i)
		name := prefix + Hyphenate(field.Name)
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if field.Anonymous {
				bindStruct(flags, prefix, fieldVal, o)
			} else {
				bindStruct(flags, name+".", fieldVal, o)
			}
			continue
		}

		help := field.Tag.Get("help")
		def := field.Tag.Get("default")
		if rd, ok := field.Tag.Lookup("releaseDefault"); ok && o.release {
			def = rd
		}
		def = o.expand(def)

		ptr := fieldVal.Addr().Interface()
		switch p := ptr.(type) {
		case *string:
			flags.StringVar(p, name, def, help)
		case *bool:
			flags.BoolVar(p, name, cast.ToBool(def), help)
		case *int:
			flags.IntVar(p, name, cast.ToInt(def), help)
		case *int64:
			flags.Int64Var(p, name, cast.ToInt64(def), help)
		case *uint:
			flags.UintVar(p, name, cast.ToUint(def), help)
		case *float64:
			flags.Float64Var(p, name, cast.ToFloat64(def), help)
		case *time.Duration:
			d, err := time.ParseDuration(def)
			if def != "" && err != nil {
				panic(fmt.Sprintf("cfgstruct: invalid default for %s: %v", name, err))
			}
			flags.DurationVar(p, name, d, help)
		case *[]string:
			var list []string
			if def != "" {
				list = strings.Split(def, ",")
			}
			flags.StringSliceVar(p, name, list, help)
		default:
			panic(fmt.Sprintf("cfgstruct: unsupported type %s for %s", field.Type, name))
		}
	}
}

func (o *bindOptions) expand(def string) string {
	for name, value := range o.vars {
		def = strings.ReplaceAll(def, name, value)
	}
	return def
}

// Hyphenate MaxIdleConn -> max-idle-conn, AccessKeyID -> access-key-id
func Hyphenate(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
