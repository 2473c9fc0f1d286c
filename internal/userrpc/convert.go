package userrpc

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/afoley587/coding-challenges-2025/users-api/internal/user"
)

// UserToStruct encodes u as {"id", "name", "email"}.  An absent email
// is a null value.  IDs travel as protobuf numbers (float64), so values
// beyond 2^53 lose precision.
func UserToStruct(u user.User) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"id":   u.ID,
		"name": u.Name,
	}
	if u.Email != nil {
		fields["email"] = *u.Email
	} else {
		fields["email"] = nil
	}
	return structpb.NewStruct(fields)
}

// UserFromStruct decodes the shape produced by UserToStruct.
func UserFromStruct(s *structpb.Struct) (user.User, error) {
	if s == nil {
		return user.User{}, fmt.Errorf("user struct is nil")
	}
	idVal, ok := s.GetFields()["id"]
	if !ok {
		return user.User{}, fmt.Errorf("user struct missing id")
	}
	n, ok := idVal.GetKind().(*structpb.Value_NumberValue)
	if !ok || !isInt64(n.NumberValue) {
		return user.User{}, fmt.Errorf("user id must be an integer in int64 range")
	}
	name, err := requiredString(s, "name")
	if err != nil {
		return user.User{}, err
	}
	email, err := optionalString(s, "email")
	if err != nil {
		return user.User{}, err
	}
	id := int64(n.NumberValue)
	if email == nil {
		return user.New(id, name), nil
	}
	return user.NewWithEmail(id, name, *email), nil
}

// CreateRequest builds the CreateUser request body.
func CreateRequest(name string, email *string) (*structpb.Struct, error) {
	fields := map[string]interface{}{"name": name}
	if email != nil {
		fields["email"] = *email
	}
	return structpb.NewStruct(fields)
}

// ParseCreateRequest reads the name and optional email of a CreateUser
// request.  The name must be a non-empty string.
func ParseCreateRequest(s *structpb.Struct) (string, *string, error) {
	if s == nil {
		return "", nil, fmt.Errorf("request is nil")
	}
	name, err := requiredString(s, "name")
	if err != nil {
		return "", nil, err
	}
	if name == "" {
		return "", nil, fmt.Errorf("name must not be empty")
	}
	email, err := optionalString(s, "email")
	if err != nil {
		return "", nil, err
	}
	return name, email, nil
}

// isInt64 reports whether f is finite, integral, and inside
// [-2^63, 2^63), so int64(f) is exact.
func isInt64(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	return f >= -(1<<63) && f < 1<<63
}

func requiredString(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	str, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return str.StringValue, nil
}

func optionalString(s *structpb.Struct, key string) (*string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		str := k.StringValue
		return &str, nil
	default:
		return nil, fmt.Errorf("%s must be a string or null", key)
	}
}
