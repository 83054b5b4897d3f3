package ocr

import "errors"

var (
	// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
	// was not compiled in. Rebuild with -tags ocr to enable OCR support.
	ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

	// ErrNoPages is returned when a source yields no page results at all
	ErrNoPages = errors.New("ocr: no page results")

	// ErrInvalidNotification is returned for completion messages without a job ID
	ErrInvalidNotification = errors.New("ocr: invalid job notification")
)
