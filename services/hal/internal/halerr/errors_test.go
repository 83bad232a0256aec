package halerr

import "testing"

func TestErrorsAreStableStrings(t *testing.T) {
	cases := map[string]error{
		"hal_not_ready":   ErrNotInitialized,
		"closed":          ErrClosed,
		"invalid_period":  ErrInvalidPeriod,
		"invalid_channel": ErrInvalidChannel,
		"invalid_module":  ErrInvalidModule,
	}
	for want, e := range cases {
		if e == nil || e.Error() != want {
			t.Fatalf("error %q mismatch: got %#v", want, e)
		}
	}
}
