package cob

import (
	"errors"
	"io"

	"go.uber.org/zap"
)

// Collect drains it, dropping and logging item errors.
func Collect[A any](it *Actions[A], log *zap.Logger) []Action[A] {
	if log == nil {
		log = zap.NewNop()
	}
	var actions []Action[A]
	for {
		a, err := it.Next()
		if errors.Is(err, io.EOF) {
			return actions
		}
		if err != nil {
			log.Warn("skipping action", zap.Error(err))
			continue
		}
		actions = append(actions, a)
	}
}

// CollectOperations groups consecutive actions of the same change into
// operations, keeping their order.
func CollectOperations[A any](actions []Action[A]) []Operation[A] {
	var ops []Operation[A]
	for _, a := range actions {
		if n := len(ops); n > 0 && ops[n-1].EntryID == a.EntryID {
			ops[n-1].Actions = append(ops[n-1].Actions, a.Action)
			continue
		}
		ops = append(ops, Operation[A]{
			EntryID:   a.EntryID,
			Author:    a.Author,
			Timestamp: a.Timestamp,
			Actions:   []A{a.Action},
		})
	}
	return ops
}
