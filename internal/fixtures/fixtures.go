// Package fixtures declares the example entities used by the demo CLI and
// by tests that exercise the compiler end to end: a User with a HasMany
// Courses relation, matching the entities named throughout SPEC_FULL.md §8.
package fixtures

import (
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"github.com/irvanherz/entityorm/schema"
)

// User is the root entity in every demo scenario.
type User struct {
	Id        string
	Username  string
	FullName  string
	Role      string
	DeletedAt null.Time
}

// Course is the related entity reached through User.Courses.
type Course struct {
	Id     string
	UserId string
	Name   string
	Price  decimal.Decimal
}

func init() {
	schema.RegisterTable(&User{}, schema.TableOptions{Name: "users"})
	schema.RegisterColumn(&User{}, "id", schema.ColumnOptions{Primary: true})
	schema.RegisterColumn(&User{}, "username", schema.ColumnOptions{Unique: true, Length: 64})
	schema.RegisterColumn(&User{}, "fullName", schema.ColumnOptions{Name: "full_name", SqlType: "text"})
	schema.RegisterColumn(&User{}, "role", schema.ColumnOptions{Default: "'member'"})
	schema.RegisterColumn(&User{}, "deletedAt", schema.ColumnOptions{Name: "deleted_at", Nullable: true})

	schema.RegisterTable(&Course{}, schema.TableOptions{Name: "courses"})
	schema.RegisterColumn(&Course{}, "id", schema.ColumnOptions{Primary: true})
	schema.RegisterColumn(&Course{}, "userId", schema.ColumnOptions{})
	schema.RegisterColumn(&Course{}, "name", schema.ColumnOptions{Length: 128})
	schema.RegisterColumn(&Course{}, "price", schema.ColumnOptions{SqlType: "numeric(12,2)"})

	schema.RegisterRelation(&User{}, "courses", func() any { return &Course{} }, schema.RelationOptions{
		ForeignKey:   "id",
		PrincipalKey: "userId",
		JoinKind:     schema.JoinLeft,
		Eager:        false,
	})
}
