package postgres

import (
	"errors"
	"strings"

	"github.com/Asnet-code/Specialisci/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Listing is a sanitized list request. Sort must already be a real column
// name; services map user input onto a whitelist before building one.
type Listing struct {
	Q      string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// search adds a case-insensitive substring match of Q over the given columns.
func (l Listing) search(db *gorm.DB, cols ...string) *gorm.DB {
	if q := strings.TrimSpace(l.Q); q != "" && len(cols) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		conds := make([]string, 0, len(cols))
		args := make([]any, 0, len(cols))
		for _, col := range cols {
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	return db
}

// window adds ordering and pagination.
func (l Listing) window(db *gorm.DB) *gorm.DB {
	if l.Sort != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: l.Sort}, Desc: l.Desc})
	}
	if l.Limit > 0 {
		db = db.Limit(l.Limit)
	}
	if l.Offset > 0 {
		db = db.Offset(l.Offset)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return utils.ErrDuplicate
	}
	return err
}

// affected turns an update that matched nothing into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
