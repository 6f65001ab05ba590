package policy

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

var (
	// ErrAuth means no usable credential context exists. Callers should
	// tell the operator to run `az login` and exit non-zero.
	ErrAuth = errors.New("azure authentication failed")

	// ErrScopeNotFound means the requested subscription or resource group
	// does not exist.
	ErrScopeNotFound = errors.New("scope not found")
)

// classify maps transport-level failures onto the package sentinels.
// Anything it does not recognize is returned verbatim so the operator
// sees the raw API error.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) {
		return fmt.Errorf("%w: %s", ErrAuth, authErr.Error())
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch {
		case respErr.StatusCode == http.StatusUnauthorized,
			respErr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrAuth, respErr.Error())
		case respErr.StatusCode == http.StatusNotFound,
			respErr.ErrorCode == "ResourceGroupNotFound",
			respErr.ErrorCode == "SubscriptionNotFound":
			return fmt.Errorf("%w: %s", ErrScopeNotFound, respErr.Error())
		}
	}

	return err
}
