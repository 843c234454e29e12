package handler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

// fields はリクエスト Struct のフィールドを型付きで読み出します。
type fields map[string]*structpb.Value

func requestFields(req *structpb.Struct) (fields, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	return fields(req.GetFields()), nil
}

func (f fields) present(key string) bool {
	v, ok := f[key]
	if !ok || v == nil {
		return false
	}
	_, isNull := v.GetKind().(*structpb.Value_NullValue)
	return !isNull
}

func (f fields) str(key string) (string, error) {
	if !f.present(key) {
		return "", nil
	}
	s, ok := f[key].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", invalidField(key, "must be a string")
	}
	return strings.TrimSpace(s.StringValue), nil
}

func (f fields) optionalStr(key string) (*string, error) {
	s, err := f.str(key)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

func (f fields) integer(key string) (int, error) {
	if !f.present(key) {
		return 0, nil
	}
	switch v := f[key].GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := v.NumberValue
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, invalidField(key, "must be an integer")
		}
		return int(n), nil
	default:
		return 0, invalidField(key, "must be a number")
	}
}

func (f fields) boolean(key string) (bool, error) {
	if !f.present(key) {
		return false, nil
	}
	b, ok := f[key].GetKind().(*structpb.Value_BoolValue)
	if !ok {
		return false, invalidField(key, "must be a boolean")
	}
	return b.BoolValue, nil
}

// date は YYYY-MM-DD か RFC3339 の日時を受け付けます。
func (f fields) date(key string) (*time.Time, error) {
	raw, err := f.str(key)
	if err != nil || raw == "" {
		return nil, err
	}
	for _, layout := range []string{time.RFC3339Nano, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidField(key, "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
}

func invalidField(key, reason string) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf("%s %s", key, reason))
}
