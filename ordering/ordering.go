// Package ordering maintains explicit, author-defined orderings of child
// records under a parent record (sections within a course, lessons within a
// section). Positions live in the children's order_index column and are
// independent of any natural sort key.
package ordering

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"lms/apperrors"
)

// Scope identifies one ordered collection: all rows of Model whose
// ParentColumn equals ParentID.
type Scope struct {
	Model        interface{} // e.g. &course.CourseSection{}
	ParentColumn string      // e.g. "course_id"
	ParentID     uint
}

// NextIndex returns the position for a child appended at the end of the
// scope's order.
func NextIndex(db *gorm.DB, scope Scope) (int, error) {
	var maxOrder int
	err := db.Model(scope.Model).
		Where(scope.ParentColumn+" = ?", scope.ParentID).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&maxOrder).Error
	if err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

// CurrentOrder returns the ids of the scope's children in persisted order.
// Ties on order_index resolve by id, so freshly appended rows keep creation
// order until the first reorder.
func CurrentOrder(db *gorm.DB, scope Scope) ([]uint, error) {
	var ids []uint
	err := db.Model(scope.Model).
		Where(scope.ParentColumn+" = ?", scope.ParentID).
		Order("order_index asc, id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Reorder replaces the persisted order of the scope's children with newOrder.
// newOrder must contain exactly the current child ids, each once; otherwise
// the call fails with apperrors.ValidationError and nothing is written. The
// rewrite runs in a single transaction, so concurrent reorders on the same
// parent contend on the same rows and serialize instead of interleaving.
func Reorder(db *gorm.DB, scope Scope, newOrder []uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		current, err := CurrentOrder(tx, scope)
		if err != nil {
			return err
		}

		if err := validateSameSet(current, newOrder); err != nil {
			return err
		}

		for i, id := range newOrder {
			err := tx.Model(scope.Model).
				Where("id = ? AND "+scope.ParentColumn+" = ?", id, scope.ParentID).
				Update("order_index", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// validateSameSet checks that newOrder is a permutation of current and
// reports every id that breaks that: duplicates inside newOrder, members of
// newOrder that are not children, and children left out of newOrder.
func validateSameSet(current, newOrder []uint) error {
	currentSet := make(map[uint]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	var duplicate, unexpected []uint
	seen := make(map[uint]bool, len(newOrder))
	for _, id := range newOrder {
		if seen[id] {
			duplicate = append(duplicate, id)
			continue
		}
		seen[id] = true
		if !currentSet[id] {
			unexpected = append(unexpected, id)
		}
	}

	var missing []uint
	for _, id := range current {
		if !seen[id] {
			missing = append(missing, id)
		}
	}

	if len(duplicate) == 0 && len(unexpected) == 0 && len(missing) == 0 {
		return nil
	}

	var fields []apperrors.FieldError
	if len(missing) > 0 {
		fields = append(fields, apperrors.FieldError{Field: "missing", Message: formatIDs(missing)})
	}
	if len(unexpected) > 0 {
		fields = append(fields, apperrors.FieldError{Field: "unexpected", Message: formatIDs(unexpected)})
	}
	if len(duplicate) > 0 {
		fields = append(fields, apperrors.FieldError{Field: "duplicate", Message: formatIDs(duplicate)})
	}

	return apperrors.NewValidationError("New order must contain exactly the current members!", fields...)
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
