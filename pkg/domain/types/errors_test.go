package types_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

func TestHasTag(t *testing.T) {
	base := goerr.New("missing", goerr.T(types.ErrTagNotFound))

	t.Run("direct", func(t *testing.T) {
		gt.Value(t, types.HasTag(base, types.ErrTagNotFound)).Equal(true)
		gt.Value(t, types.HasTag(base, types.ErrTagInvalidArgument)).Equal(false)
	})

	t.Run("wrapped by goerr", func(t *testing.T) {
		err := goerr.Wrap(base, "failed to load")
		gt.Value(t, types.HasTag(err, types.ErrTagNotFound)).Equal(true)
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", goerr.Wrap(base, "inner"))
		gt.Value(t, types.HasTag(err, types.ErrTagNotFound)).Equal(true)
	})

	t.Run("untagged", func(t *testing.T) {
		gt.Value(t, types.HasTag(goerr.New("plain"), types.ErrTagNotFound)).Equal(false)
	})
}
