package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/fieldlens/fieldlens/internal/ocr"
)

// Inspector inventories a document file: identity, pages, embedded text and
// image assets.
type Inspector struct {
	maxFileSize int64
	validator   *Validator
}

// NewInspector creates an inspector with the specified size limit
func NewInspector(maxFileSize int64) *Inspector {
	return &Inspector{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// DescribeFile returns the intake inventory of a document file
func (i *Inspector) DescribeFile(req DescribeFileRequest) (*DescribeFileResult, error) {
	fileInfo, err := statFile(req.Path)
	if err != nil {
		return nil, err
	}
	if err := i.validator.validateFileInfo(req.Path, fileInfo); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	f, r, err := pdf.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result := &DescribeFileResult{
		Path:            req.Path,
		DocumentID:      ocr.DocumentID(data),
		Size:            fileInfo.Size(),
		Pages:           r.NumPage(),
		ModifiedDate:    fileInfo.ModTime().Format("2006-01-02 15:04:05"),
		HasEmbeddedText: hasEmbeddedText(r),
		Images:          collectImages(r),
	}
	extractMetadata(r, result)

	return result, nil
}

// hasEmbeddedText probes the first pages for a text layer. Scanned documents
// without one rely entirely on recognition.
func hasEmbeddedText(r *pdf.Reader) (found bool) {
	defer func() {
		if recover() != nil {
			found = false
		}
	}()

	const probePages = 3
	pages := r.NumPage()
	if pages > probePages {
		pages = probePages
	}
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err == nil && strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}

// collectImages scans all pages for image XObjects
func collectImages(r *pdf.Reader) []ImageInfo {
	var images []ImageInfo
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		images = append(images, pageImages(r, pageNum)...)
	}
	return images
}

// pageImages extracts image descriptors from one page
func pageImages(r *pdf.Reader, pageNum int) (images []ImageInfo) {
	defer func() {
		// A malformed page loses its images, not the whole inventory.
		if recover() != nil {
			images = nil
		}
	}()

	page := r.Page(pageNum)
	if page.V.IsNull() {
		return images
	}

	resources := page.V.Key("Resources")
	if resources.IsNull() {
		return images
	}

	xObjects := resources.Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return images
	}

	for _, key := range xObjects.Keys() {
		obj := xObjects.Key(key)
		if obj.IsNull() {
			continue
		}
		subtype := obj.Key("Subtype")
		if subtype.IsNull() || subtype.Name() != "Image" {
			continue
		}
		if info := imageInfo(obj, pageNum); info != nil {
			images = append(images, *info)
		}
	}

	return images
}

// imageInfo extracts a descriptor from an image XObject
func imageInfo(obj pdf.Value, pageNum int) (info *ImageInfo) {
	defer func() {
		if recover() != nil {
			info = nil
		}
	}()

	candidate := &ImageInfo{
		PageNumber: pageNum,
		Format:     "unknown",
	}

	if width := obj.Key("Width"); !width.IsNull() {
		candidate.Width = int(width.Int64())
	}
	if height := obj.Key("Height"); !height.IsNull() {
		candidate.Height = int(height.Int64())
	}
	if filter := obj.Key("Filter"); !filter.IsNull() {
		candidate.Format = normalizeImageFormat(filter.Name())
	}

	bitsPerComponent := 8
	if bpc := obj.Key("BitsPerComponent"); !bpc.IsNull() {
		bitsPerComponent = int(bpc.Int64())
	}

	if candidate.Width > 0 && candidate.Height > 0 {
		// Rough estimate assuming three color components.
		candidate.Size = int64(candidate.Width * candidate.Height * (bitsPerComponent / 8) * 3)
		return candidate
	}
	return nil
}

// normalizeImageFormat converts PDF filter names to more readable format names
func normalizeImageFormat(filterName string) string {
	switch filterName {
	case "DCTDecode":
		return "JPEG"
	case "JPXDecode":
		return "JPEG2000"
	case "CCITTFaxDecode":
		return "TIFF/Fax"
	case "JBIG2Decode":
		return "JBIG2"
	case "FlateDecode":
		return "PNG/Deflate"
	case "LZWDecode":
		return "LZW"
	case "RunLengthDecode":
		return "RLE"
	default:
		if filterName != "" {
			return filterName
		}
		return "unknown"
	}
}

// extractMetadata fills document info fields when the trailer carries them
func extractMetadata(r *pdf.Reader, result *DescribeFileResult) {
	defer func() {
		// Metadata is optional; a broken info dictionary is ignored.
		_ = recover()
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return
	}

	if title := info.Key("Title"); !title.IsNull() {
		result.Title = strings.TrimSpace(title.String())
	}
	if author := info.Key("Author"); !author.IsNull() {
		result.Author = strings.TrimSpace(author.String())
	}
	if producer := info.Key("Producer"); !producer.IsNull() {
		result.Producer = strings.TrimSpace(producer.String())
	}
}
