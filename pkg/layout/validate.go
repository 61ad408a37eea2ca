package layout

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/planstack/floorplan/pkg/errors"
)

// fieldValidator checks the numeric range tags on the document structs.
// Field names in error messages come from the json tags, so a failure
// reads "canvas_size.width must be greater than 0" rather than
// "CanvasSize.Width".
var fieldValidator = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks every document invariant:
//
//   - layout_name is non-empty printable text
//   - canvas_size dimensions are strictly positive
//   - grid_size, when set, is not negative
//   - object ids are non-empty, well-formed and unique
//   - object type tags are non-empty
//   - object dimensions are not negative
//   - rotations lie in [0, 360)
//
// The first violation is returned as an INVALID_LAYOUT error naming
// the failing field.
func (l *Layout) Validate() error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidLayout, "layout is nil")
	}

	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}

	if err := fieldValidator.Struct(l); err != nil {
		return translateFieldError(err)
	}

	seen := make(map[string]int, len(l.Objects))
	for i := range l.Objects {
		o := &l.Objects[i]
		if err := errors.ValidateObjectID(o.ID); err != nil {
			return err
		}
		if err := errors.ValidateTypeTag(o.Type); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLayout, err, "object %q", o.ID)
		}
		if first, dup := seen[o.ID]; dup {
			return errors.New(errors.ErrCodeInvalidLayout,
				"duplicate object id %q (objects[%d] and objects[%d])", o.ID, first, i)
		}
		seen[o.ID] = i
	}

	return nil
}

// translateFieldError converts the first validator failure into the
// document error taxonomy.
func translateFieldError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout failed validation")
	}

	fe := verrs[0]
	field := fe.Namespace()
	// Strip the root struct segment: "Layout.canvas_size.width" ->
	// "canvas_size.width".
	if _, rest, found := strings.Cut(field, "."); found {
		field = rest
	}

	switch fe.Tag() {
	case "gt":
		return errors.New(errors.ErrCodeInvalidLayout, "%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return errors.New(errors.ErrCodeInvalidLayout, "%s must not be less than %s, got %v", field, fe.Param(), fe.Value())
	case "lt":
		return errors.New(errors.ErrCodeInvalidLayout, "%s must be less than %s, got %v", field, fe.Param(), fe.Value())
	case "required":
		return errors.New(errors.ErrCodeInvalidLayout, "%s is required", field)
	}
	return errors.New(errors.ErrCodeInvalidLayout, "%s failed the %s constraint", field, fe.Tag())
}
