package forecast

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"crypto-forecast-backend/internal/asset"
	"crypto-forecast-backend/internal/config"
)

func testBounds(t *testing.T) (Bounds, Window) {
	t.Helper()
	b, w, err := FromConfig(config.Default().Bounds)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return b, w
}

func TestValidate(t *testing.T) {
	b, _ := testBounds(t)
	tests := []struct {
		name       string
		asset      string
		start, end string
		want       Kind
	}{
		{"valid", "bitcoin", "2025-08-09", "2025-08-15", 0},
		{"valid timestamps", "gold", "2025-08-20T00:00:00Z", "2025-08-25T00:00:00.000Z", 0},
		{"unsupported asset", "unsupported-coin", "2025-08-09", "2025-08-15", KindUnsupportedAsset},
		{"unsupported before dates", "unsupported-coin", "garbage", "2025-08-01", KindUnsupportedAsset},
		{"bad start", "bitcoin", "08/09/2025", "2025-08-15", KindInvalidDateFormat},
		{"bad end", "bitcoin", "2025-08-09", "2025-02-30", KindInvalidDateFormat},
		{"end before start", "bitcoin", "2025-08-20", "2025-08-10", KindInvalidRange},
		{"equal dates", "bitcoin", "2025-08-20", "2025-08-20", KindInvalidRange},
		{"before min", "bitcoin", "2025-08-08", "2025-08-15", KindOutOfBounds},
		{"after max", "bitcoin", "2029-12-01", "2030-01-01", KindOutOfBounds},
		{"full bounds too long", "bitcoin", "2025-08-09", "2029-12-31", KindRangeTooLong},
		{"exactly 365 days", "bitcoin", "2025-08-09", "2026-08-09", 0},
		{"366 days", "bitcoin", "2025-08-09", "2026-08-10", KindRangeTooLong},
		{"max bound edge", "dogecoin", "2029-01-01", "2029-12-31", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Validate(b, tt.asset, tt.start, tt.end)
			if got := KindOf(err); got != tt.want {
				t.Fatalf("Validate kind = %v (%v), want %v", got, err, tt.want)
			}
			if tt.want == 0 && req.Start.IsZero() {
				t.Fatal("valid request has zero start")
			}
		})
	}
}

func TestValidateNormalizesRequest(t *testing.T) {
	b, _ := testBounds(t)
	req, err := Validate(b, " Gold ", "2025-08-20T10:30:00Z", "2025-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if req.Asset.ID != asset.Gold {
		t.Errorf("asset = %v", req.Asset.ID)
	}
	if req.StartDate() != "2025-08-20" || req.EndDate() != "2025-08-25" {
		t.Errorf("range = %s..%s", req.StartDate(), req.EndDate())
	}
	if req.Start.Location() != time.UTC {
		t.Errorf("start location = %v", req.Start.Location())
	}
}

func TestValidateMessages(t *testing.T) {
	b, _ := testBounds(t)
	_, err := Validate(b, "bitcoin", "2025-01-01", "2025-02-01")
	if err == nil || err.Error() != "Dates must be between August 9, 2025 and December 31, 2029" {
		t.Errorf("out of bounds message = %v", err)
	}
	_, err = Validate(b, "bitcoin", "2025-08-09", "2027-01-01")
	if err == nil || !strings.Contains(err.Error(), "1 year") {
		t.Errorf("range too long message = %v", err)
	}
	_, err = Validate(b, "shiba", "2025-08-09", "2025-08-10")
	if err == nil || err.Error() != "Unsupported cryptocurrency: shiba" {
		t.Errorf("unsupported message = %v", err)
	}
}

func TestKindHTTPStatus(t *testing.T) {
	for k := KindUnsupportedAsset; k <= KindNoDataForRange; k++ {
		want := http.StatusBadRequest
		if k == KindSourceLoadFailure {
			want = http.StatusInternalServerError
		}
		if got := k.HTTPStatus(); got != want {
			t.Errorf("%v.HTTPStatus() = %d, want %d", k, got, want)
		}
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
}
