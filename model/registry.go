package model

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/coderi421/kaede/internal/errs"
)

type Registry interface {
	Get(val any) (*Model, error)
	Register(val any, opts ...Option) (*Model, error)
}

// 这种包变量对测试不友好，缺乏隔离
//
//	var defaultRegistry = &registry{
//		models: make(map[reflect.Type]*model, 16),
//	}
type registry struct {
	// models key 是类型名
	// 这种定义方式是不行的
	// 1. 类型名冲突，例如都是 User，但是一个映射过去 buyer_t
	// 一个映射过去 seller_t
	// 2. 并发不安全
	// models map[string]*model

	// reflect.Type 可以解决命名冲突的问题
	models sync.Map
}

func NewRegistry() Registry {
	return &registry{}
}

// Get fetches the model associated with a given value.
// If the model is not found in the registry, it is parsed and stored for future use.
// Get 查找元数据模型
func (r *registry) Get(val any) (*Model, error) {
	// Get the type of the value
	typ := reflect.TypeOf(val)

	// Check if the model is already present in the registry
	m, ok := r.models.Load(typ)
	if ok {
		return m.(*Model), nil
	}

	// Return the model
	return r.Register(val)
}

// Register registers a model in the registry with the given options.
// It parses the model if it is not found and applies the provided options.
// It stores the model in the registry and returns the registered model.
func (r *registry) Register(val any, opts ...Option) (*Model, error) {
	// If the model is not found, parse it
	m, err := r.parseModel(val)
	if err != nil {
		return nil, err
	}

	// Apply the provided options to the model
	for _, opt := range opts {
		err = opt(m)
		if err != nil {
			return nil, err
		}
	}

	typ := reflect.TypeOf(val)

	// Store the model in the registry
	r.models.Store(typ, m)

	return m, nil
}

// parseModel parses a given reflect.Type and returns a new model or an error.
// It checks if the type is a pointer to a struct and generates a map of Field names
// and their corresponding column names for the model.
// orm:"column=xxx,pk,seq=user_id_seq,fk=users.id,notnull,unique"
func (r *registry) parseModel(val any) (*Model, error) {
	// Get the type of the input value
	typ := reflect.TypeOf(val)

	// Check if the type is a pointer to a struct
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		// Only support one-level pointer as input, e.g. *User does not support **User and User
		return nil, errs.ErrPointerOnly
	}

	// Dereference the pointer to get the struct type
	typ = typ.Elem()

	// Get the number of fields in the struct
	numField := typ.NumField()

	fields := make([]*Field, 0, numField)
	// Create a map to store the Struct Field names and their corresponding column names
	fds := make(map[string]*Field, numField)
	// Create a map to store the DB names and their corresponding column names
	colMap := make(map[string]*Field, numField)

	var (
		pk           *Field
		associations []*Association
		constraints  []*Constraint
	)

	// Iterate over each Field in the struct
	for i := 0; i < numField; i++ {
		// Get the reflect.StructField of the current Field
		fdStruct := typ.Field(i)

		// Process the tag of the Field
		tags, err := r.parseTag(fdStruct.Tag)
		if err != nil {
			return nil, err
		}

		// Get the column name from the tag or use the default Field name
		colName := tags[tagKeyColumn]
		if colName == "" {
			// If the colName is "", use the default  ItemId -> item_id
			colName = underscoreName(fdStruct.Name)
		}

		f := &Field{
			ColName:  colName,
			GoName:   fdStruct.Name,
			Type:     fdStruct.Type,
			Offset:   fdStruct.Offset,
			Index:    i,
			Sequence: tags[tagKeySequence],
		}

		if _, ok := tags[tagKeyPK]; ok {
			// 一个关系有且只有一个主键
			if pk != nil {
				return nil, errs.NewErrMultiplePrimaryKeys(typ.Name())
			}
			f.PrimaryKey = true
			pk = f
		}
		if _, ok := tags[tagKeyNotNull]; ok {
			f.NotNull = true
			constraints = append(constraints, &Constraint{
				Type:   ConstraintNotNull,
				Fields: []string{fdStruct.Name},
			})
		}
		if _, ok := tags[tagKeyUnique]; ok {
			f.Unique = true
			constraints = append(constraints, &Constraint{
				Type:   ConstraintUnique,
				Fields: []string{fdStruct.Name},
			})
		}
		if fk, ok := tags[tagKeyFK]; ok {
			refTable, refCol, ok := strings.Cut(fk, ".")
			if !ok {
				return nil, errs.NewErrInvalidTagContent(tagKeyFK + "=" + fk)
			}
			associations = append(associations, &Association{
				FieldName: fdStruct.Name,
				RefTable:  refTable,
				RefColumn: refCol,
			})
			constraints = append(constraints, &Constraint{
				Type:      ConstraintForeignKey,
				Fields:    []string{fdStruct.Name},
				RefTable:  refTable,
				RefColumn: refCol,
			})
		}

		fields = append(fields, f)
		// Store the Struct Field's column name in the map
		fds[fdStruct.Name] = f
		// Store the DB's column name in the map
		colMap[colName] = f
	}

	// 没有显式声明主键的时候，按照约定取 Id 字段
	if pk == nil {
		if f, ok := fds["Id"]; ok {
			f.PrimaryKey = true
			pk = f
		}
	}
	if pk != nil {
		constraints = append([]*Constraint{{
			Type:   ConstraintPrimaryKey,
			Fields: []string{pk.GoName},
		}}, constraints...)
	}

	// Get the table name from the input value if it implements TableName interface
	var tableName string
	if tn, ok := val.(TableName); ok {
		tableName = tn.TableName()
	}
	// If the table name is not provided, generate it from the struct name
	if tableName == "" {
		tableName = underscoreName(typ.Name())
	}

	var readOnly bool
	if ro, ok := val.(ReadOnlyTable); ok {
		readOnly = ro.ReadOnly()
	}

	// Create and return the model
	return &Model{
		TableName:    tableName,
		ReadOnly:     readOnly,
		Fields:       fields,
		FieldMap:     fds,
		ColumnMap:    colMap,
		PrimaryKey:   pk,
		Associations: associations,
		Constraints:  constraints,
	}, nil
}

// parseTag parses the given struct tag and returns a map of key-value pairs.
// If the tag is empty, it returns an empty map and no error.
// 支持两种形式的设置项：key=value，以及单独的标记，例如 pk
func (r *registry) parseTag(tag reflect.StructTag) (map[string]string, error) {
	ormTag := tag.Get(tagORMName)
	if ormTag == "" {
		// Return an empty map so that the caller doesn't need to check for nil
		return map[string]string{}, nil
	}

	res := make(map[string]string, 4)

	// Split the tag string into individual key-value pairs
	pairs := strings.Split(ormTag, ",")
	for _, pair := range pairs {
		if pair == "" {
			return nil, errs.NewErrInvalidTagContent(pair)
		}
		// Split each pair into key and value
		// 类似 pk 这种标记没有 value 部分
		key, value, _ := strings.Cut(pair, "=")
		res[key] = value
	}

	return res, nil
}

// underscoreName converts a given table name to underscore case.
// It replaces any uppercase letter with an underscore followed by the lowercase letter.
// It returns the converted table name as a string.
// UserName -> user_name
func underscoreName(tableName string) string {
	var buf []byte
	for i, v := range tableName {
		// If the character is uppercase
		if unicode.IsUpper(v) {
			// Add an underscore before the lowercase letter
			if i != 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, byte(unicode.ToLower(v)))
		} else {
			// Append the character as it is
			buf = append(buf, byte(v))
		}
	}
	return string(buf)
}

// WithTableName is an Option function that sets the table name for a Model.
func WithTableName(tableName string) Option {
	return func(model *Model) error {
		model.TableName = tableName
		return nil
	}
}

// WithColumnName is a function that returns an Option function, which can be used to set the column name for a specific Field in a model.
func WithColumnName(field, columnName string) Option {
	return func(model *Model) error {
		// Check if the Field exists in the model's Field map
		fd, ok := model.FieldMap[field]
		if !ok {
			// Return an error if the Field is unknown
			return errs.NewErrUnknownField(field)
		}

		// Set the column name for the Field
		fd.ColName = columnName
		return nil
	}
}

// WithReadOnly 把关系标记为只读，例如映射到视图的结构体
func WithReadOnly() Option {
	return func(model *Model) error {
		model.ReadOnly = true
		return nil
	}
}

// WithSequence 声明某个字段的值由外部序列生成
func WithSequence(field, sequence string) Option {
	return func(model *Model) error {
		fd, ok := model.FieldMap[field]
		if !ok {
			return errs.NewErrUnknownField(field)
		}
		fd.Sequence = sequence
		return nil
	}
}
