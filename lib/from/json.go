package from

import (
	"fmt"

	"github.com/nuts-foundation/hdsi-querytool/lib/hdsiapi"
)

// JSONResponse decodes the body of a successful HDSI response into T.
func JSONResponse[T any](response *hdsiapi.Response) (T, error) {
	var result T
	if response == nil {
		return result, fmt.Errorf("no response to decode")
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return result, fmt.Errorf("non-OK status code (status=%d)", response.StatusCode)
	}
	if err := response.Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}
