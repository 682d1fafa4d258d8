package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Error records err under the key "error". A nil err yields an empty Attr,
// which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// DraftID records a draft identifier. Accepts uuid.UUID or any Stringer.
func DraftID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("draft_id", id)
}

// Form records the name of the validated form.
func Form(name string) slog.Attr {
	return slog.String("form", name)
}

// DraftKind records which range editor a draft belongs to.
func DraftKind(kind string) slog.Attr {
	return slog.String("draft_kind", kind)
}

// Op records a range editor operation name.
func Op(name string) slog.Attr {
	return slog.String("op", name)
}

// Failed records the number of fields that failed validation.
func Failed(fields int) slog.Attr {
	return slog.Int("failed_fields", fields)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func ClientIP(ip string) slog.Attr {
	return slog.String("client_ip", ip)
}
