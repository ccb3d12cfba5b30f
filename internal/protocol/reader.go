package protocol

import (
	"bytes"
	"io"

	gerrors "guessgame/internal/errors"
	"guessgame/util"
)

// HeaderTerminator marks the end of the request header block.
const HeaderTerminator = "\r\n\r\n"

// ReadRequest reads r in chunks of [util.DefaultBufSize] until the
// accumulated text contains [HeaderTerminator] or the stream ends.  A
// clean end of stream is not an error; whatever was received is
// returned.  When limit > 0 and more than limit bytes arrive without a
// terminator, the text read so far is returned with
// [gerrors.ErrRequestTooLarge].
func ReadRequest(r io.Reader, limit int) (string, error) {
	buf := util.GetBuf()
	defer util.PutBuf(buf)

	var acc bytes.Buffer
	term := []byte(HeaderTerminator)

	for {
		n, err := r.Read(*buf)
		if n > 0 {
			// The terminator may straddle two chunks.
			from := acc.Len() - (len(term) - 1)
			if from < 0 {
				from = 0
			}
			acc.Write((*buf)[:n])
			if bytes.Contains(acc.Bytes()[from:], term) {
				return acc.String(), nil
			}
			if limit > 0 && acc.Len() > limit {
				return acc.String(), gerrors.ErrRequestTooLarge
			}
		}
		if err == io.EOF {
			return acc.String(), nil
		}
		if err != nil {
			return acc.String(), err
		}
	}
}
