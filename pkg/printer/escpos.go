package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width and height
	FontTall   = 0x01 // double height only
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// maxQRData is the byte limit of a model 2 QR code at error level M
const maxQRData = 2331

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for charWidth columns; non-positive means 58mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// Width is the number of printable columns.
func (d *Document) Width() int {
	return d.width
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Wrap prints s broken on spaces so no line exceeds the paper width.
// Words longer than a line are split.
func (d *Document) Wrap(s string) *Document {
	for _, paragraph := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(paragraph) {
			for utf8.RuneCountInString(word) > d.width {
				if line != "" {
					d.Text(line)
					line = ""
				}
				r := []rune(word)
				d.Text(string(r[:d.width]))
				word = string(r[d.width:])
			}
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= d.width:
				line += " " + word
			default:
				d.Text(line)
				line = word
			}
		}
		d.Text(line)
	}
	return d
}

// Separator prints a full-width line of char.
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(d.columns(key, value))
}

// ItemLine prints "2x Widget      20.00". Names too long for the line are cut.
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.Text(d.columns(fmt.Sprintf("%dx %s", qty, name), total))
}

func (d *Document) columns(left, right string) string {
	room := d.width - utf8.RuneCountInString(right) - 1
	if room < 1 {
		room = 1
	}
	if r := []rune(left); len(r) > room {
		left = string(r[:room])
	}
	spaces := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

// QRCode prints data as a model 2 QR code using the printer's built-in
// encoder. moduleSize is the dot size of one module (1-16). Data longer
// than the symbol capacity is skipped.
func (d *Document) QRCode(data string, moduleSize byte) *Document {
	if data == "" || len(data) > maxQRData {
		return d
	}
	if moduleSize < 1 || moduleSize > 16 {
		moduleSize = 6
	}

	// model 2
	d.buf.Write([]byte{GS, '(', 'k', 4, 0, '1', 'A', '2', 0})
	// module size
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'C', moduleSize})
	// error correction level M
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'E', '1'})
	// store data
	n := len(data) + 3
	d.buf.Write([]byte{GS, '(', 'k', byte(n % 256), byte(n / 256), '1', 'P', '0'})
	d.buf.WriteString(data)
	// print
	d.buf.Write([]byte{GS, '(', 'k', 3, 0, '1', 'Q', '0'})
	d.buf.WriteByte(LF)
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated ESC/POS byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}
