package catalog

import (
	"errors"

	"github.com/sells-group/budget-cli/internal/model"
)

// Sentinels callers test with errors.Is.
var (
	ErrStoreUnavailable = model.ErrStoreUnavailable
	ErrItemNotFound     = model.ErrItemNotFound
	ErrEmptyQuery       = model.ErrEmptyQuery
)

// IsNotFound reports whether err means the code is neither priced nor composed.
func IsNotFound(err error) bool { return errors.Is(err, ErrItemNotFound) }

// IsEmptyQuery reports whether err is the no-search signal for empty contains text.
func IsEmptyQuery(err error) bool { return errors.Is(err, ErrEmptyQuery) }

// IsUnavailable reports whether err came from an unreachable or failing store.
func IsUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
