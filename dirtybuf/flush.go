// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dirtybuf

import (
	"context"
	"log/slog"

	"cogentcore.org/pipeline/base/errors"
	"github.com/cenkalti/backoff/v4"
)

// CommitFunc commits data, which starts at byte offset off of the
// buffer, to the device or store that the buffer is synchronized with.
type CommitFunc func(off int, data []byte) error

// Flush commits the dirty range of b with commit, then clears the
// dirty range. Nothing is committed if the range is empty. If commit
// fails the dirty range is kept so the flush can be retried.
func Flush(b *Buffer, commit CommitFunc) error {
	dr := b.Dirty()
	if dr.Empty() {
		return nil
	}
	data, err := b.ReadSlice(dr.Lo, dr.Hi)
	if err != nil {
		return err
	}
	if err := commit(dr.Lo, data); err != nil {
		return err
	}
	slog.Debug("dirtybuf.Flush", "range", dr.String(), "bytes", dr.Len())
	b.ClearDirty()
	return nil
}

// FlushRetry is [Flush] with exponential backoff, retrying up to
// maxRetries times when the commit or the view fails.
func FlushRetry(ctx context.Context, b *Buffer, commit CommitFunc, maxRetries uint64) error {
	op := func() error {
		err := Flush(b, commit)
		if errors.Is(err, ErrOutOfRange) {
			return backoff.Permanent(err)
		}
		return err
	}
	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries)
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
