package http

import (
	"net/http"
	"strconv"
	"time"

	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractWindow parses the start_time/end_time query parameters. Both are
// required and must be RFC3339; window semantics (start < end) are enforced
// by the service, not here.
func ExtractWindow(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()

	startStr := query.Get("start_time")
	endStr := query.Get("end_time")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("both 'start_time' and 'end_time' query parameters are required")
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid start_time format, must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid end_time format, must be RFC3339")
	}

	return start, end, nil
}
