package kaede

import (
	"context"
	"database/sql"

	"github.com/coderi421/kaede/internal/errs"
	"github.com/coderi421/kaede/internal/valuer"
	"github.com/coderi421/kaede/model"
)

type DBOption func(*DB)

// DB 是 sql.DB 的装饰器，持有元数据注册中心、方言和中间件链
type DB struct {
	core
	db *sql.DB
}

// Open 打开一个数据库连接并且完成 DB 的装配
// 默认使用 MySQL 方言和 unsafe 取值器
func Open(driver string, dsn string, opts ...DBOption) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenDB(db, opts...)
}

// OpenDB 包装一个已经建立的 *sql.DB，方便使用 sqlmock 这样的东西
func OpenDB(db *sql.DB, opts ...DBOption) (*DB, error) {
	res := &DB{
		core: core{
			dialect:    MySQL,
			r:          model.NewRegistry(),
			valCreator: valuer.NewUnsafeValue,
			seqs:       make(map[string]Sequence, 4),
		},
		db: db,
	}

	// Apply each option to the DB instance.
	for _, opt := range opts {
		opt(res)
	}

	return res, nil
}

// MustOpen creates a new DB with the provided options.
// If the creation fails, it panics.
func MustOpen(driver string, dsn string, opts ...DBOption) *DB {
	db, err := Open(driver, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

func DBWithDialect(dialect Dialect) DBOption {
	return func(db *DB) {
		db.dialect = dialect
	}
}

func DBWithRegistry(r model.Registry) DBOption {
	return func(db *DB) {
		db.r = r
	}
}

func DBWithMiddlewares(mdls ...Middleware) DBOption {
	return func(db *DB) {
		db.mdls = mdls
	}
}

// DBUseReflectValuer 切换到反射取值器，unsafe 不可用的时候用
func DBUseReflectValuer() DBOption {
	return func(db *DB) {
		db.valCreator = valuer.NewReflectValue
	}
}

// DBWithValidators 注册记录保存前执行的校验器
func DBWithValidators(vs ...Validator) DBOption {
	return func(db *DB) {
		db.validators = vs
	}
}

// DBWithSequence 按名字注册一个序列，orm:"seq=name" 的字段插入时从它取值
func DBWithSequence(name string, seq Sequence) DBOption {
	return func(db *DB) {
		db.seqs[name] = seq
	}
}

func (db *DB) getCore() core {
	return db.core
}

func (db *DB) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{
		tx: tx,
		db: db,
	}, nil
}

// DoTx 事务闭包 API，fn 返回错误或者 panic 的时候回滚，否则提交
func (db *DB) DoTx(ctx context.Context,
	fn func(ctx context.Context, tx *Tx) error,
	opts *sql.TxOptions) (err error) {
	var tx *Tx
	tx, err = db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	panicked := true
	defer func() {
		if panicked || err != nil {
			e := tx.Rollback()
			if e != nil {
				err = errs.NewErrFailedToRollbackTx(err, e, panicked)
			}
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(ctx, tx)
	panicked = false
	return err
}

func (db *DB) Close() error {
	return db.db.Close()
}
