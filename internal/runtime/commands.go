package runtime

import (
	"context"
	"errors"
	"fmt"
	goruntime "runtime"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/drblury/adbridge/internal/runtime/ads"
	codecpkg "github.com/drblury/adbridge/internal/runtime/codec"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	idspkg "github.com/drblury/adbridge/internal/runtime/ids"
	loggingpkg "github.com/drblury/adbridge/internal/runtime/logging"
	"github.com/drblury/adbridge/internal/runtime/metadata"
	"github.com/drblury/adbridge/internal/runtime/sdk"
)

// Method names understood by HandleMethodCall.
const (
	MethodInit                     = "init"
	MethodHotRestart               = "_init"
	MethodLoadAd                   = "loadAd"
	MethodPlayAd                   = "playAd"
	MethodCanPlayAd                = "canPlayAd"
	MethodLoadBannerAd             = "loadBannerAd"
	MethodDisposeAd                = "disposeAd"
	MethodGetAdSize                = "getAdSize"
	MethodUpdateConsentStatus      = "updateConsentStatus"
	MethodGetConsentStatus         = "getConsentStatus"
	MethodGetConsentMessageVersion = "getConsentMessageVersion"
	MethodSDKVersion               = "sdkVersion"
	MethodGetPlatformVersion       = "getPlatformVersion"
	MethodEnableBackgroundDownload = "enableBackgroundDownload"
)

// Argument keys.
const (
	argAppID                 = "appId"
	argPlacementID           = "placementId"
	argAdID                  = "adId"
	argSize                  = "size"
	argConsentStatus         = "consentStatus"
	argConsentMessageVersion = "consentMessageVersion"
	argErrorCode             = "errorCode"
	argErrorMessage          = "errorMessage"
)

// Error envelope codes.
const (
	ErrorCodeDuplicateHandle  = "duplicateHandle"
	ErrorCodeMissingArgument  = "missingArgument"
	ErrorCodeMalformedMessage = "malformedMessage"
	ErrorCodeNotImplemented   = "notImplemented"
	ErrorCodeInternal         = "error"
)

type commandFunc func(ctx context.Context, call codecpkg.MethodCall) (any, error)

func (s *Service) commandTable() map[string]commandFunc {
	return map[string]commandFunc{
		MethodInit:                     s.initSDK,
		MethodHotRestart:               s.hotRestart,
		MethodLoadAd:                   s.loadAd,
		MethodPlayAd:                   s.playAd,
		MethodCanPlayAd:                s.canPlayAd,
		MethodLoadBannerAd:             s.loadBannerAd,
		MethodDisposeAd:                s.disposeAd,
		MethodGetAdSize:                s.getAdSize,
		MethodUpdateConsentStatus:      s.updateConsentStatus,
		MethodGetConsentStatus:         s.getConsentStatus,
		MethodGetConsentMessageVersion: s.getConsentMessageVersion,
		MethodSDKVersion:               s.sdkVersion,
		MethodGetPlatformVersion:       s.getPlatformVersion,
		MethodEnableBackgroundDownload: s.enableBackgroundDownload,
	}
}

// HandleMethodCall runs one host command. Failures of the SDK operation a
// command starts are reported later as events, never here.
func (s *Service) HandleMethodCall(ctx context.Context, call codecpkg.MethodCall) (any, error) {
	cmd, ok := s.commands[call.Method]
	if !ok {
		s.metrics.RecordCommand("unknown", "not_implemented")
		return nil, fmt.Errorf("%w: %s", errspkg.ErrNotImplemented, call.Method)
	}
	s.Logger.Debug("Handling command", loggingpkg.LogFields{"method": call.Method})

	result, err := cmd(ctx, call)
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordCommand(call.Method, status)
	return result, err
}

// HandleMessage decodes an encoded method call, runs it and returns the
// encoded reply envelope. A message that fails to decode gets a
// malformedMessage envelope and leaves later messages unaffected.
func (s *Service) HandleMessage(ctx context.Context, payload []byte) ([]byte, error) {
	call, err := s.methods.DecodeMethodCall(payload)
	if err != nil {
		s.Logger.Debug("Rejecting malformed command", loggingpkg.LogFields{"error": err.Error()})
		s.metrics.RecordCommand("unknown", "malformed")
		return s.methods.EncodeErrorEnvelope(ErrorCodeMalformedMessage, err.Error(), nil)
	}

	result, err := s.HandleMethodCall(ctx, call)
	if err != nil {
		code, msg := errorEnvelope(err)
		return s.methods.EncodeErrorEnvelope(code, msg, nil)
	}
	reply, err := s.methods.EncodeSuccessEnvelope(result)
	if err != nil {
		return s.methods.EncodeErrorEnvelope(ErrorCodeInternal, err.Error(), nil)
	}
	return reply, nil
}

func errorEnvelope(err error) (code, message string) {
	var methodErr *codecpkg.MethodError
	switch {
	case errors.As(err, &methodErr):
		return methodErr.Code, methodErr.Message
	case errors.Is(err, errspkg.ErrNotImplemented):
		return ErrorCodeNotImplemented, ""
	case errors.Is(err, errspkg.ErrDuplicateHandle):
		return ErrorCodeDuplicateHandle, err.Error()
	case errors.Is(err, errspkg.ErrMissingArgument):
		return ErrorCodeMissingArgument, err.Error()
	case errors.Is(err, errspkg.ErrMalformedMessage):
		return ErrorCodeMalformedMessage, err.Error()
	}
	return ErrorCodeInternal, err.Error()
}

// handleCommandMessage is the router handler for the command topic. The reply
// carries the command's correlation id. It never returns an error, so a bad
// command is answered once instead of being redelivered.
func (s *Service) handleCommandMessage(msg *message.Message) ([]*message.Message, error) {
	reply, err := s.HandleMessage(msg.Context(), msg.Payload)
	if err != nil {
		s.Logger.Error("Failed to encode reply", err, loggingpkg.LogFields{"message_uuid": msg.UUID})
		return nil, nil
	}

	status := "success"
	if _, decodeErr := s.methods.DecodeEnvelope(reply); decodeErr != nil {
		status = "error"
	}
	out := message.NewMessage(idspkg.New(), reply)
	metadata.Apply(out, metadata.New(
		metadata.KeyChannel, s.Conf.ChannelName,
		metadata.KeyCorrelationID, msg.Metadata.Get(metadata.KeyCorrelationID),
		metadata.KeyCodec, s.methods.Name(),
		metadata.KeyContentType, s.methods.ContentType(),
		metadata.KeyStatus, status,
	))
	return []*message.Message{out}, nil
}

func missing(method, arg string) error {
	return fmt.Errorf("%w: %s requires %s", errspkg.ErrMissingArgument, method, arg)
}

func (s *Service) initSDK(_ context.Context, call codecpkg.MethodCall) (any, error) {
	appID, ok := call.StringArgument(argAppID)
	if !ok {
		s.post(s.channel, eventInitFailed, errorArgs(sdk.NewError(sdk.CodeMissingRequiredArgumentsInit)))
		return false, nil
	}
	s.sdk.Init(appID, &initCallback{s: s})
	return true, nil
}

// hotRestart drops every ad the previous host instance created.
func (s *Service) hotRestart(context.Context, codecpkg.MethodCall) (any, error) {
	n := s.ads.DisposeAll()
	s.metrics.SetAdsTracked(0)
	s.Logger.Debug("Disposed ads on hot restart", loggingpkg.LogFields{"disposed": n})
	return nil, nil
}

func (s *Service) loadAd(_ context.Context, call codecpkg.MethodCall) (any, error) {
	placementID, ok := call.StringArgument(argPlacementID)
	if !ok {
		return false, nil
	}
	s.sdk.LoadAd(placementID, &placementLoadCallback{s: s})
	return true, nil
}

func (s *Service) playAd(_ context.Context, call codecpkg.MethodCall) (any, error) {
	placementID, ok := call.StringArgument(argPlacementID)
	if !ok {
		return false, nil
	}
	s.sdk.PlayAd(placementID, sdk.AdConfig{}, &placementPlayCallback{s: s})
	return true, nil
}

func (s *Service) canPlayAd(_ context.Context, call codecpkg.MethodCall) (any, error) {
	placementID, ok := call.StringArgument(argPlacementID)
	if !ok {
		return false, nil
	}
	return s.sdk.CanPlayAd(placementID), nil
}

func (s *Service) loadBannerAd(_ context.Context, call codecpkg.MethodCall) (any, error) {
	adID, ok := call.IntArgument(argAdID)
	if !ok {
		return nil, missing(MethodLoadBannerAd, argAdID)
	}
	placementID, ok := call.StringArgument(argPlacementID)
	if !ok {
		return nil, missing(MethodLoadBannerAd, argPlacementID)
	}
	raw, _ := call.Argument(argSize)
	size, ok := ads.SizeFromValue(raw)
	if !ok {
		return nil, missing(MethodLoadBannerAd, argSize)
	}

	banner := ads.NewBannerAd(adID, placementID, size, s.sdk, &adInstanceManager{s: s})
	if err := s.ads.Track(adID, banner); err != nil {
		return nil, err
	}
	s.metrics.SetAdsTracked(s.ads.Len())
	banner.Load()
	return nil, nil
}

func (s *Service) disposeAd(_ context.Context, call codecpkg.MethodCall) (any, error) {
	adID, ok := call.IntArgument(argAdID)
	if !ok {
		return nil, nil
	}
	if s.ads.Dispose(adID) {
		s.metrics.SetAdsTracked(s.ads.Len())
	}
	return nil, nil
}

func (s *Service) getAdSize(_ context.Context, call codecpkg.MethodCall) (any, error) {
	adID, ok := call.IntArgument(argAdID)
	if !ok {
		return nil, nil
	}
	ad, err := s.ads.Lookup(adID)
	if err != nil {
		return nil, nil
	}
	banner, ok := ad.(*ads.BannerAd)
	if !ok {
		return nil, nil
	}
	return banner.Size(), nil
}

func (s *Service) updateConsentStatus(_ context.Context, call codecpkg.MethodCall) (any, error) {
	status, ok := call.StringArgument(argConsentStatus)
	if !ok {
		return false, nil
	}
	version, ok := call.StringArgument(argConsentMessageVersion)
	if !ok {
		return false, nil
	}
	consent, ok := sdk.ParseConsent(status)
	if !ok {
		return false, nil
	}
	s.sdk.UpdateConsentStatus(consent, version)
	return true, nil
}

func (s *Service) getConsentStatus(context.Context, codecpkg.MethodCall) (any, error) {
	consent, ok := s.sdk.ConsentStatus()
	if !ok {
		return "", nil
	}
	return consent.String(), nil
}

func (s *Service) getConsentMessageVersion(context.Context, codecpkg.MethodCall) (any, error) {
	return s.sdk.ConsentMessageVersion(), nil
}

func (s *Service) sdkVersion(context.Context, codecpkg.MethodCall) (any, error) {
	return s.sdk.Version(), nil
}

func (s *Service) getPlatformVersion(context.Context, codecpkg.MethodCall) (any, error) {
	return "Go " + goruntime.Version(), nil
}

func (s *Service) enableBackgroundDownload(context.Context, codecpkg.MethodCall) (any, error) {
	return nil, nil
}
