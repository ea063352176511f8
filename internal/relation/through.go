// Package relation describes has-many-through associations as join
// specifications and renders them as a single SQL join.
package relation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"gorm.io/gorm"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// HasManyThrough Parent -> Through -> Target 两跳外键关联
//
//	SELECT target.* FROM target
//	INNER JOIN through ON target.SecondKey = through.SecondLocalKey
//	WHERE through.FirstKey = <parent.LocalKey>
type HasManyThrough struct {
	Parent  string
	Through string
	Target  string

	FirstKey       string // through 表指向 parent 的外键，如 users.country_id
	SecondKey      string // target 表指向 through 的外键，如 posts.user_id
	LocalKey       string // parent 主键
	SecondLocalKey string // through 主键
	TargetKey      string // target 主键，用于排序
}

type Option func(*HasManyThrough)

func WithFirstKey(k string) Option       { return func(r *HasManyThrough) { r.FirstKey = k } }
func WithSecondKey(k string) Option      { return func(r *HasManyThrough) { r.SecondKey = k } }
func WithLocalKey(k string) Option       { return func(r *HasManyThrough) { r.LocalKey = k } }
func WithSecondLocalKey(k string) Option { return func(r *HasManyThrough) { r.SecondLocalKey = k } }
func WithTargetKey(k string) Option      { return func(r *HasManyThrough) { r.TargetKey = k } }

// New 按命名约定填充默认键：外键为 单数表名_id，主键为 id。
func New(parent, through, target string, opts ...Option) HasManyThrough {
	r := HasManyThrough{
		Parent:         parent,
		Through:        through,
		Target:         target,
		FirstKey:       foreignKey(parent),
		SecondKey:      foreignKey(through),
		LocalKey:       "id",
		SecondLocalKey: "id",
		TargetKey:      "id",
	}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// CountryPosts countries -> users -> posts
var CountryPosts = New("countries", "users", "posts")

func foreignKey(table string) string {
	return inflection.Singular(table) + "_id"
}

// Validate 所有表名和列名必须是普通 SQL 标识符
func (r HasManyThrough) Validate() error {
	names := []struct{ field, v string }{
		{"parent", r.Parent},
		{"through", r.Through},
		{"target", r.Target},
		{"first key", r.FirstKey},
		{"second key", r.SecondKey},
		{"local key", r.LocalKey},
		{"second local key", r.SecondLocalKey},
		{"target key", r.TargetKey},
	}
	for _, n := range names {
		if !identRe.MatchString(n.v) {
			return fmt.Errorf("relation: invalid %s %q", n.field, n.v)
		}
	}
	return nil
}

func col(table, column string) string { return table + "." + column }

func (r HasManyThrough) joinClause() string {
	return fmt.Sprintf("INNER JOIN %s ON %s = %s",
		r.Through, col(r.Target, r.SecondKey), col(r.Through, r.SecondLocalKey))
}

func (r HasManyThrough) orderClause() string {
	return col(r.Target, r.TargetKey) + " ASC"
}

// Scope 返回 gorm scope：一条 join 语句，按 target 主键升序。
// parentKey 为 parent.LocalKey 的取值。
func (r HasManyThrough) Scope(parentKey any) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if err := r.Validate(); err != nil {
			_ = db.AddError(err)
			return db
		}
		return db.Table(r.Target).
			Select(r.Target+".*").
			Joins(r.joinClause()).
			Where(col(r.Through, r.FirstKey)+" = ?", parentKey).
			Order(r.orderClause())
	}
}

// SQL 渲染为单条参数化语句，供裸 SQL 客户端使用。
// placeholder 如 "?" 或 "$1"；columns 为空时选择 target.*。
func (r HasManyThrough) SQL(placeholder string, columns ...string) string {
	sel := r.Target + ".*"
	if len(columns) > 0 {
		qualified := make([]string, len(columns))
		for i, c := range columns {
			qualified[i] = col(r.Target, c)
		}
		sel = strings.Join(qualified, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s %s WHERE %s = %s ORDER BY %s",
		sel, r.Target, r.joinClause(), col(r.Through, r.FirstKey), placeholder, r.orderClause())
}

func (r HasManyThrough) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s -> %s.%s",
		r.Parent, r.LocalKey, r.Through, r.FirstKey, r.Target, r.SecondKey)
}
