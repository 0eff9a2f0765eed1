package export

// Kind 单元格类型，在注册列时确定
type Kind int

const (
	KindText     Kind = iota // 文本，原样写入
	KindNumber               // 数字，按 #,##0 显示
	KindDateTime             // 日期时间，按 yyyy-MM-dd HH:mm:ss 显示
	KindDate                 // 日期，按 yyyy-MM-dd 显示
	KindEnum                 // 枚举，写入其标签
	KindFallback             // 其它类型，写入默认文本表示
	KindValue                // 动态列，写入时按值的实际类型判定
)

// 单元格数字格式
const (
	NumberFormat   = "#,##0"
	DateTimeFormat = "yyyy-MM-dd HH:mm:ss"
	DateFormat     = "yyyy-MM-dd"
)

// csv等文本导出使用的时间格式
const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

var kindNames = map[Kind]string{
	KindText:     "text",
	KindNumber:   "number",
	KindDateTime: "datetime",
	KindDate:     "date",
	KindEnum:     "enum",
	KindFallback: "fallback",
	KindValue:    "value",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Format 该类型单元格的数字格式，文本类返回空
func (k Kind) Format() string {
	switch k {
	case KindNumber:
		return NumberFormat
	case KindDateTime:
		return DateTimeFormat
	case KindDate:
		return DateFormat
	default:
		return ""
	}
}
