// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFatal(t *testing.T) {
	t.Parallel()

	for _, errno := range fatalErrnos {
		if !isFatal(errno) {
			t.Errorf("isFatal(%v) = false, want true", errno)
		}
		if !isFatal(fmt.Errorf("fsnotify: %w", errno)) {
			t.Errorf("isFatal(wrapped %v) = false, want true", errno)
		}
	}
	if isFatal(errors.New("queue overflow")) {
		t.Error("isFatal(generic error) = true, want false")
	}
	if isFatal(nil) {
		t.Error("isFatal(nil) = true, want false")
	}
}
