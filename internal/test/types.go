package test

import (
	"database/sql"

	"github.com/gotomicro/ekit/sqlx"
)

// SimpleStruct 覆盖了我们支持的全部字段类型
// 在 valuer 和端到端测试里面共享
type SimpleStruct struct {
	Id            uint64
	Bool          bool
	BoolPtr       *bool
	Int           int
	IntPtr        *int
	Int8          int8
	Int8Ptr       *int8
	Int16         int16
	Int16Ptr      *int16
	Int32         int32
	Int32Ptr      *int32
	Int64         int64
	Int64Ptr      *int64
	Uint          uint
	UintPtr       *uint
	Uint8         uint8
	Uint8Ptr      *uint8
	Uint16        uint16
	Uint16Ptr     *uint16
	Uint32        uint32
	Uint32Ptr     *uint32
	Uint64        uint64
	Uint64Ptr     *uint64
	Float32       float32
	Float32Ptr    *float32
	Float64       float64
	Float64Ptr    *float64
	Byte          byte
	BytePtr       *byte
	ByteArray     []byte
	String        string
	NullStringPtr *sql.NullString
	NullInt16Ptr  *sql.NullInt16
	NullInt32Ptr  *sql.NullInt32
	NullInt64Ptr  *sql.NullInt64
	NullBoolPtr   *sql.NullBool
	NullFloat64Ptr *sql.NullFloat64
	JsonColumn    *sqlx.JsonColumn[User]
}

type User struct {
	Name string `json:"name"`
}

// NewSimpleStruct 返回一个所有字段都填充好的实例
// 和测试里面 mock 出来的行数据一一对应
func NewSimpleStruct(id uint64) *SimpleStruct {
	return &SimpleStruct{
		Id:             id,
		Bool:           true,
		BoolPtr:        ToPtr[bool](false),
		Int:            12,
		IntPtr:         ToPtr[int](13),
		Int8:           8,
		Int8Ptr:        ToPtr[int8](-8),
		Int16:          16,
		Int16Ptr:       ToPtr[int16](-16),
		Int32:          32,
		Int32Ptr:       ToPtr[int32](-32),
		Int64:          64,
		Int64Ptr:       ToPtr[int64](-64),
		Uint:           14,
		UintPtr:        ToPtr[uint](15),
		Uint8:          8,
		Uint8Ptr:       ToPtr[uint8](18),
		Uint16:         16,
		Uint16Ptr:      ToPtr[uint16](116),
		Uint32:         32,
		Uint32Ptr:      ToPtr[uint32](132),
		Uint64:         64,
		Uint64Ptr:      ToPtr[uint64](164),
		Float32:        3.2,
		Float32Ptr:     ToPtr[float32](-3.2),
		Float64:        6.4,
		Float64Ptr:     ToPtr[float64](-6.4),
		Byte:           8,
		BytePtr:        ToPtr[byte](18),
		ByteArray:      []byte("hello"),
		String:         "world",
		NullStringPtr:  &sql.NullString{String: "null string", Valid: true},
		NullInt16Ptr:   &sql.NullInt16{Int16: 16, Valid: true},
		NullInt32Ptr:   &sql.NullInt32{Int32: 32, Valid: true},
		NullInt64Ptr:   &sql.NullInt64{Int64: 64, Valid: true},
		NullBoolPtr:    &sql.NullBool{Bool: true, Valid: true},
		NullFloat64Ptr: &sql.NullFloat64{Float64: 6.4, Valid: true},
		JsonColumn: &sqlx.JsonColumn[User]{
			Val:   User{Name: "Tom"},
			Valid: true,
		},
	}
}

func ToPtr[T any](t T) *T {
	return &t
}
