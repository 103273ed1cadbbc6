package sdk

import "fmt"

// Numeric exception codes reported by the SDK.
const (
	CodeNoServe                        = 1
	CodeUnknownError                   = 2
	CodeConfigurationError             = 3
	CodeAdExpired                      = 4
	CodeUnsupportedConfiguration       = 5
	CodeMissingRequiredArgumentsInit   = 6
	CodeApplicationContextRequired     = 7
	CodeOperationOngoing               = 8
	CodeNotInitialized                 = 9
	CodeAdUnableToPlay                 = 10
	CodeAdFailedToDownload             = 11
	CodeNoAutoCachedPlacement          = 12
	CodePlacementNotFound              = 13
	CodeServerRetryError               = 14
	CodeAlreadyPlayingAnotherAd        = 15
	CodeNoSpaceToInit                  = 16
	CodeNoSpaceToLoadAd                = 17
	CodeNoSpaceToLoadAdAutoCached      = 18
	CodeNoSpaceToDownloadAssets        = 19
	CodeNetworkError                   = 20
	CodeServerError                    = 21
	CodeServerTemporaryUnavailable     = 22
	CodeAssetDownloadRecoverable       = 23
	CodeAssetDownloadError             = 24
	CodeOperationCanceled              = 25
	CodeDBError                        = 26
	CodeRenderError                    = 27
	CodeInvalidSize                    = 28
	CodeIncorrectDefaultAPIUsage       = 29
	CodeIncorrectBannerAPIUsage        = 30
	CodeWebCrash                       = 31
	CodeWebViewRenderUnresponsive      = 32
	CodeNetworkUnreachable             = 33
	CodeNetworkPermissionsNotGranted   = 34
	CodeSDKVersionBelowRequiredVersion = 35
	CodeMissingHBPEventID              = 36
	CodeAdPastExpiration               = 37
	CodeAdRenderNetworkError           = 38
)

type errorInfo struct {
	identifier string
	message    string
}

// errorTable is shared with existing host consumers; identifiers must not
// change.
var errorTable = map[int]errorInfo{
	CodeNoServe:                        {"noServe", "No advertisements are available for your current bid. Please try again later."},
	CodeUnknownError:                   {"unknownError", "Unknown Exception Code"},
	CodeConfigurationError:             {"configurationError", "Configuration Error Occurred. Please check your appID and placementIDs, and try again when network connectivity is available."},
	CodeAdExpired:                      {"adExpired", "The advertisement in the cache has expired and can no longer be played. Please load another ad"},
	CodeUnsupportedConfiguration:       {"unsupportedConfiguration", "Operation is not supported for this configuration."},
	CodeMissingRequiredArgumentsInit:   {"missingRequiredArgumentsForInit", "Please ensure all parameter for init marked as NonNull are provided, as they are essential for functioning of our SDK."},
	CodeApplicationContextRequired:     {"applicationContextRequired", "Please provide Application context so our SDK can continue to support our features!"},
	CodeOperationOngoing:               {"operationOngoing", "There is already an ongoing operation for the action you requested. Please wait until the operation finished before starting another."},
	CodeNotInitialized:                 {"vungleNotInitialized", "Vungle is not initialized/no longer initialized. Please call Vungle.init() to reinitialize."},
	CodeAdUnableToPlay:                 {"adUnableToPlay", "Unable to play advertisement"},
	CodeAdFailedToDownload:             {"adFailedToDownload", "Advertisement failed to download"},
	CodeNoAutoCachedPlacement:          {"noAutoCachedPlacement", "No auto-cached Placement is available for this request."},
	CodePlacementNotFound:              {"placementNotFound", "Placement is not valid"},
	CodeServerRetryError:               {"serverRetryError", "Remote Server responded with http Retry-After, SDK will retry this request."},
	CodeAlreadyPlayingAnotherAd:        {"alreadyPlayingAnotherAd", "Vungle is already playing different ad."},
	CodeNoSpaceToInit:                  {"noSpaceToInit", "There is not enough file system size on a device to initialize VungleSDK."},
	CodeNoSpaceToLoadAd:                {"noSpaceToLoadAd", "There is not enough file system size on a device to request an ad."},
	CodeNoSpaceToLoadAdAutoCached:      {"noSpaceToLoadAdAutoCached", "There is not enough file system size on a device to request an auto-cached ad."},
	CodeNoSpaceToDownloadAssets:        {"noSpaceToDownloadAssets", "There is not enough file system size on a device to download assets for an ad."},
	CodeNetworkError:                   {"networkError", "Network error. Please try again later."},
	CodeServerError:                    {"serverError", "Remote server responded with an error."},
	CodeServerTemporaryUnavailable:     {"serverTemporaryUnavailable", "Remote server is temporarily unavailable."},
	CodeAssetDownloadRecoverable:       {"assetDownloadRecoverable", "Asset download failed, the download will be retried."},
	CodeAssetDownloadError:             {"assetDownloadError", "Assets download failed."},
	CodeOperationCanceled:              {"operationCanceled", "Operation was canceled."},
	CodeDBError:                        {"dbError", "Database error."},
	CodeRenderError:                    {"renderError", "Ad render error."},
	CodeInvalidSize:                    {"invalidSize", "Ad size is not valid for this placement."},
	CodeIncorrectDefaultAPIUsage:       {"incorrectDefaultApiUsage", "Incorrect API used for a banner placement."},
	CodeIncorrectBannerAPIUsage:        {"incorrectBannerApiUsage", "Incorrect API used for a fullscreen placement."},
	CodeWebCrash:                       {"webCrash", "Web view process crashed."},
	CodeWebViewRenderUnresponsive:      {"webviewRenderUnresponsive", "Web view render process is unresponsive."},
	CodeNetworkUnreachable:             {"networkUnreachable", "Network is unreachable."},
	CodeNetworkPermissionsNotGranted:   {"networkPermissionsNotGranted", "Network permissions are not granted."},
	CodeSDKVersionBelowRequiredVersion: {"sdkVersionBelowRequiredVersion", "SDK version is below the required version."},
	CodeMissingHBPEventID:              {"missingHbpEventId", "Missing header bidding event id."},
	CodeAdPastExpiration:               {"adPastExpiration", "The advertisement has passed its expiration date."},
	CodeAdRenderNetworkError:           {"adRenderNetworkError", "Network error while rendering the advertisement."},
}

// ErrorIdentifier maps a numeric code to its lowerCamelCase identifier, or
// "" for unmapped codes.
func ErrorIdentifier(code int) string {
	return errorTable[code].identifier
}

// ErrorMessage returns the canonical message for code. Unknown codes fall
// back to the unknownError message.
func ErrorMessage(code int) string {
	if info, ok := errorTable[code]; ok {
		return info.message
	}
	return errorTable[CodeUnknownError].message
}

// KnownCode reports whether code is part of the table.
func KnownCode(code int) bool {
	_, ok := errorTable[code]
	return ok
}

// Error is an exception raised by the SDK.
type Error struct {
	Code    int
	Message string
}

// NewError builds an Error carrying the canonical message for code.
func NewError(code int) *Error {
	return &Error{Code: code, Message: ErrorMessage(code)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("sdk error %d (%s): %s", e.Code, ErrorIdentifier(e.Code), e.Message)
}

// Identifier is ErrorIdentifier(e.Code).
func (e *Error) Identifier() string {
	return ErrorIdentifier(e.Code)
}
