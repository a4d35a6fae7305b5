package mzml

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/msspeclib/mzdata/binary"
	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
	"github.com/msspeclib/mzdata/mzerr"
	"github.com/msspeclib/mzdata/offsetindex"
	"github.com/msspeclib/mzdata/spectrum"
)

// initialIndexWindow is the starting size of the seek-from-EOF probe used
// to locate <indexListOffset> (SPEC_FULL.md §4.3); doubled on each miss
// until the offset is found or the whole file has been scanned.
const initialIndexWindow = 128 * 1024

// Reader is a random-access mzML reader over a seekable source: on open
// it locates the trailing offset index (or falls back to a full linear
// scan), then serves get-by-index/id/time lookups by seeking directly to
// the recorded byte offset and decoding exactly one element.
type Reader struct {
	rs     io.ReadSeeker
	detail DetailLevel

	metadata   meta.Metadata
	groups     *cv.GroupTable
	dicts      *binary.DictionaryTable
	specIndex  *offsetindex.Index
	chromIndex *offsetindex.Index

	usedFallback bool
	times        []float64 // lazily built index -> start time (minutes), parallel to specIndex order
}

// OpenReader builds a Reader by first parsing the document's leading
// metadata (fileDescription through the <run> open tag), then locating
// its spectrum/chromatogram offset index.
func OpenReader(rs io.ReadSeeker, detail DetailLevel) (*Reader, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	dec := NewDecoder(rs, DetailMetadataOnly)
	md, err := dec.Metadata()
	if err != nil {
		return nil, err
	}

	r := &Reader{rs: rs, detail: detail, metadata: md, groups: dec.groups, dicts: dec.dicts}

	specIdx, chromIdx, err := r.loadTrailerIndex()
	if err != nil || specIdx == nil {
		specIdx, chromIdx, err = r.linearScan()
		if err != nil {
			return nil, err
		}
		r.usedFallback = true
	}
	r.specIndex, r.chromIndex = specIdx, chromIdx
	return r, nil
}

// UsedFallbackIndex reports whether the trailer index was missing or
// unparseable and a full linear scan was used instead.
func (r *Reader) UsedFallbackIndex() bool { return r.usedFallback }

// Metadata returns the document's file-level metadata.
func (r *Reader) Metadata() meta.Metadata { return r.metadata }

// Len returns the number of spectra recorded in the offset index.
func (r *Reader) Len() int { return r.specIndex.Len() }

// GetSpectrumByIndex seeks to the recorded offset for spectrum i and
// decodes it at the reader's configured detail level.
func (r *Reader) GetSpectrumByIndex(i int) (*spectrum.Spectrum, error) {
	offset, err := r.specIndex.OffsetByIndex(i)
	if err != nil {
		return nil, err
	}
	return r.readSpectrumAt(offset, i, r.detail)
}

// GetSpectrumByID looks up a spectrum's index by native id, then reads it.
func (r *Reader) GetSpectrumByID(id string) (*spectrum.Spectrum, error) {
	i, err := r.specIndex.IndexByID(id)
	if err != nil {
		return nil, err
	}
	return r.GetSpectrumByIndex(i)
}

// GetSpectrumByTime binary-searches the lazily built index→start-time
// mapping for the spectrum with the largest scan start time <= t (ties
// resolve toward the lower index), returning ErrIndexNotFound if t
// precedes every scan's start time.
func (r *Reader) GetSpectrumByTime(t float64) (*spectrum.Spectrum, error) {
	if err := r.ensureTimes(); err != nil {
		return nil, err
	}
	lo, hi := 0, len(r.times)
	for lo < hi {
		mid := (lo + hi) / 2
		if r.times[mid] <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	idx := lo - 1
	if idx < 0 {
		return nil, mzerr.ErrIndexNotFound
	}
	return r.GetSpectrumByIndex(idx)
}

// GetChromatogramByIndex is GetSpectrumByIndex's chromatogram analog.
func (r *Reader) GetChromatogramByIndex(i int) (*spectrum.Chromatogram, error) {
	offset, err := r.chromIndex.OffsetByIndex(i)
	if err != nil {
		return nil, err
	}
	return r.readChromatogramAt(offset, i, r.detail)
}

// GetChromatogramByID is GetSpectrumByID's chromatogram analog.
func (r *Reader) GetChromatogramByID(id string) (*spectrum.Chromatogram, error) {
	i, err := r.chromIndex.IndexByID(id)
	if err != nil {
		return nil, err
	}
	return r.GetChromatogramByIndex(i)
}

func (r *Reader) ensureTimes() error {
	if r.times != nil {
		return nil
	}
	times := make([]float64, r.specIndex.Len())
	for i := range times {
		offset, err := r.specIndex.OffsetByIndex(i)
		if err != nil {
			return err
		}
		s, err := r.readSpectrumAt(offset, i, DetailMetadataOnly)
		if err != nil {
			return err
		}
		if scan, ok := s.Description.FirstScan(); ok && scan.HasStartTime {
			times[i] = scan.StartTime
		} else if i > 0 {
			times[i] = times[i-1]
		}
	}
	r.times = times
	return nil
}

func (r *Reader) readSpectrumAt(offset int64, index int, detail DetailLevel) (*spectrum.Spectrum, error) {
	start, dec, err := r.seekToStart(offset, "spectrum")
	if err != nil {
		return nil, err
	}
	n, err := decodeNode(dec, start)
	if err != nil {
		return nil, err
	}
	return buildSpectrum(n, r.groups, r.dicts, index, detail)
}

func (r *Reader) readChromatogramAt(offset int64, index int, detail DetailLevel) (*spectrum.Chromatogram, error) {
	start, dec, err := r.seekToStart(offset, "chromatogram")
	if err != nil {
		return nil, err
	}
	n, err := decodeNode(dec, start)
	if err != nil {
		return nil, err
	}
	return buildChromatogram(n, r.groups, r.dicts, index, detail)
}

func (r *Reader) seekToStart(offset int64, elementName string) (xml.StartElement, *xml.Decoder, error) {
	if _, err := r.rs.Seek(offset, io.SeekStart); err != nil {
		return xml.StartElement{}, nil, err
	}
	dec := xml.NewDecoder(r.rs)
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, nil, mzerr.Wrap(mzerr.ErrMalformedXML, elementName, "", offset, err.Error())
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == elementName {
			return start, dec, nil
		}
	}
}

// loadTrailerIndex seeks from EOF with a doubling window to find
// <indexListOffset>, then parses the <indexList> it points to. Returns
// (nil, nil, nil) if no offset could be located, signalling the caller to
// fall back to a linear scan.
func (r *Reader) loadTrailerIndex() (*offsetindex.Index, *offsetindex.Index, error) {
	size, err := r.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, nil, err
	}

	var tailOffset int64
	var found bool
	window := int64(initialIndexWindow)
	for {
		start := size - window
		if start < 0 {
			start = 0
		}
		if _, err := r.rs.Seek(start, io.SeekStart); err != nil {
			return nil, nil, err
		}
		buf := make([]byte, size-start)
		if _, err := io.ReadFull(r.rs, buf); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, nil, err
		}
		if off, ok := extractIndexListOffset(buf); ok {
			tailOffset, found = off, true
			break
		}
		if start == 0 {
			break
		}
		window *= 2
	}
	if !found {
		return nil, nil, nil
	}

	specIdx, chromIdx, err := r.parseIndexList(tailOffset)
	if err != nil {
		return nil, nil, nil // malformed trailer: caller falls back
	}
	return specIdx, chromIdx, nil
}

func extractIndexListOffset(buf []byte) (int64, bool) {
	const openTag, closeTag = "<indexListOffset>", "</indexListOffset>"
	i := bytes.Index(buf, []byte(openTag))
	if i < 0 {
		return 0, false
	}
	rest := buf[i+len(openTag):]
	j := bytes.Index(rest, []byte(closeTag))
	if j < 0 {
		return 0, false
	}
	text := strings.TrimSpace(string(rest[:j]))
	off, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return off, true
}

func (r *Reader) parseIndexList(offset int64) (*offsetindex.Index, *offsetindex.Index, error) {
	start, dec, err := r.seekToStart(offset, "indexList")
	if err != nil {
		return nil, nil, err
	}
	n, err := decodeNode(dec, start)
	if err != nil {
		return nil, nil, err
	}

	specIdx, chromIdx := offsetindex.New(), offsetindex.New()
	for _, indexNode := range n.all("index") {
		name, _ := indexNode.attrs.get("name")
		target := specIdx
		if name == "chromatogram" {
			target = chromIdx
		}
		for _, offNode := range indexNode.all("offset") {
			id, ok := offNode.attrs.get("idRef")
			if !ok {
				continue
			}
			off, err := strconv.ParseInt(strings.TrimSpace(offNode.text), 10, 64)
			if err != nil {
				continue
			}
			target.Append(id, off)
		}
	}
	return specIdx, chromIdx, nil
}

// linearScan falls back to a full forward pass over the document,
// recording every <spectrum>/<chromatogram> start tag's byte offset
// (SPEC_FULL.md §4.3's fallback for a missing or corrupt trailer).
func (r *Reader) linearScan() (*offsetindex.Index, *offsetindex.Index, error) {
	if _, err := r.rs.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	specIdx, chromIdx := offsetindex.New(), offsetindex.New()
	dec := xml.NewDecoder(r.rs)
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, mzerr.Wrap(mzerr.ErrMalformedXML, "document", "", offset, err.Error())
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := newAttrMap(start)
		switch start.Name.Local {
		case "spectrum":
			if id, ok := attrs.get("id"); ok {
				specIdx.Append(id, offset)
			}
		case "chromatogram":
			if id, ok := attrs.get("id"); ok {
				chromIdx.Append(id, offset)
			}
		}
	}
	return specIdx, chromIdx, nil
}

// ChecksumReader wraps an io.Reader with an incremental SHA-1 and MD5
// digest, run alongside the parser so a writer can carry the observed
// checksum forward as a source-file param on pass-through (SPEC_FULL.md
// §4.3 "Checksums").
type ChecksumReader struct {
	r    io.Reader
	sha1 hash.Hash
	md5  hash.Hash
}

// NewChecksumReader wraps r, tee-ing every byte read through SHA-1 and
// MD5 digests.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, sha1: sha1.New(), md5: md5.New()}
}

func (c *ChecksumReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sha1.Write(p[:n])
		c.md5.Write(p[:n])
	}
	return n, err
}

// SHA1Hex returns the running SHA-1 digest, hex-encoded, over every byte
// read so far.
func (c *ChecksumReader) SHA1Hex() string { return hex.EncodeToString(c.sha1.Sum(nil)) }

// MD5Hex returns the running MD5 digest, hex-encoded, over every byte read
// so far.
func (c *ChecksumReader) MD5Hex() string { return hex.EncodeToString(c.md5.Sum(nil)) }
