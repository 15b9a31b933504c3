package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mrops-br/product-showcase-api/internal/domain"
)

// maxBodyBytes bounds request bodies accepted by Bind
const maxBodyBytes = 64 << 10

var ErrEmptyBody = errors.New("request body is empty")

// Validator validates decoded request DTOs
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	commonTags := []string{
		"json",
		"param",
		"query",
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	_ = validate.RegisterValidation("field", func(fl validator.FieldLevel) bool {
		switch domain.Field(fl.Field().String()) {
		case domain.FieldName, domain.FieldPrice:
			return true
		}
		return false
	})

	return &Validator{validate: validate}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("invalid request: %s", strings.Join(msgs, ", "))
	}
	return err
}

// Bind decodes the JSON body of r into dst and validates it
func (v *Validator) Bind(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}

	return v.Validate(dst)
}
