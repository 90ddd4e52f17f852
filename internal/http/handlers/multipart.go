package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/phambaophuc/image-transform/internal/errors"
)

const (
	imageParamKey  = "image"
	widthParamKey  = "width"
	heightParamKey = "height"
	xParamKey      = "x"
	yParamKey      = "y"

	// longer than any uint32 with some room for whitespace
	maxNumericFieldBytes = 32
)

// multipartForm is the classified content of one upload. It does not outlive
// the handler call.
type multipartForm struct {
	image    []byte
	hasImage bool
	numbers  map[string]int
}

// readMultipartForm consumes the parts of r in arrival order. The image part
// is buffered whole; numericFields are parsed as they arrive so a bad value
// fails before the rest of the body is read. Other field names are skipped.
func readMultipartForm(r *http.Request, logger *zap.Logger, numericFields ...string) (*multipartForm, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fieldReadError(err)
	}

	form := &multipartForm{numbers: make(map[string]int, len(numericFields))}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fieldReadError(err)
		}

		if err := form.consume(part, logger, numericFields); err != nil {
			return nil, err
		}
	}

	if !form.hasImage {
		return nil, apperrors.New(apperrors.KindMissingImageData, "multipart", fmt.Errorf("no %q field in request", imageParamKey))
	}
	return form, nil
}

func (f *multipartForm) consume(part *multipart.Part, logger *zap.Logger, numericFields []string) error {
	defer part.Close()

	name := part.FormName()
	switch {
	case name == imageParamKey:
		data, err := io.ReadAll(part)
		if err != nil {
			return fieldReadError(err)
		}
		f.image, f.hasImage = data, true
	case slices.Contains(numericFields, name):
		value, err := readNumericField(part, name)
		if err != nil {
			return err
		}
		f.numbers[name] = value
	default:
		logger.Debug("Ignoring unrecognized multipart field", zap.String("field", name))
	}
	return nil
}

func readNumericField(part io.Reader, name string) (int, error) {
	raw, err := io.ReadAll(io.LimitReader(part, maxNumericFieldBytes+1))
	if err != nil {
		return 0, fieldReadError(err)
	}
	if len(raw) > maxNumericFieldBytes {
		return 0, apperrors.InvalidParameter(name, errors.New("value is too long"))
	}
	if !utf8.Valid(raw) {
		return 0, apperrors.InvalidParameter(name, errors.New("value is not valid UTF-8"))
	}

	value, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil {
		return 0, apperrors.InvalidParameter(name, apperrors.ErrNotNumeric)
	}
	return int(value), nil
}

// number returns the parsed field or fallback when the client omitted it.
func (f *multipartForm) number(name string, fallback int) int {
	if v, ok := f.numbers[name]; ok {
		return v
	}
	return fallback
}

func (f *multipartForm) requiredNumber(name string) (int, error) {
	v, ok := f.numbers[name]
	if !ok {
		return 0, apperrors.InvalidParameter(name, apperrors.ErrMissingField)
	}
	return v, nil
}

func fieldReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.New(apperrors.KindPayloadTooLarge, "multipart", err)
	}
	return apperrors.New(apperrors.KindFieldRead, "multipart", err)
}
