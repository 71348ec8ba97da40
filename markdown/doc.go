// Package markdown serializes an assembled document to Markdown. The
// serializer switches exhaustively over block kinds so that adding a new
// block variant is a compile-visible change, and it emits aligned pipe
// tables padded by display width so that wide (CJK) cell content does
// not skew the columns.
package markdown
