package adbridge

import (
	runtimepkg "github.com/drblury/adbridge/internal/runtime"
	"github.com/drblury/adbridge/internal/runtime/ads"
	channelpkg "github.com/drblury/adbridge/internal/runtime/channel"
	codecpkg "github.com/drblury/adbridge/internal/runtime/codec"
	configpkg "github.com/drblury/adbridge/internal/runtime/config"
	errspkg "github.com/drblury/adbridge/internal/runtime/errors"
	idspkg "github.com/drblury/adbridge/internal/runtime/ids"
	jsoncodec "github.com/drblury/adbridge/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/adbridge/internal/runtime/logging"
	metadatapkg "github.com/drblury/adbridge/internal/runtime/metadata"
	sdkpkg "github.com/drblury/adbridge/internal/runtime/sdk"
	"github.com/drblury/adbridge/internal/runtime/sdk/simulated"
	transportpkg "github.com/drblury/adbridge/internal/runtime/transport"
	newtransport "github.com/drblury/adbridge/transport"
)

type (
	Config              = configpkg.Config
	Service             = runtimepkg.Service
	ServiceDependencies = runtimepkg.ServiceDependencies
	Transport           = transportpkg.Transport
	TransportFactory    = transportpkg.Factory

	MiddlewareBuilder      = runtimepkg.MiddlewareBuilder
	MiddlewareRegistration = runtimepkg.MiddlewareRegistration

	BridgeMetrics = runtimepkg.BridgeMetrics
	AdInfo        = runtimepkg.AdInfo
	PlacementInfo = runtimepkg.PlacementInfo

	// Ad SDK contract
	SDK              = sdkpkg.SDK
	SDKError         = sdkpkg.Error
	SDKAdSize        = sdkpkg.AdSize
	Consent          = sdkpkg.Consent
	AdConfig         = sdkpkg.AdConfig
	InitCallback     = sdkpkg.InitCallback
	LoadCallback     = sdkpkg.LoadCallback
	PlayCallback     = sdkpkg.PlayCallback
	Banner           = sdkpkg.Banner
	SimulatedSDK     = simulated.SDK
	SimulatedOptions = simulated.Options

	// Values exchanged with the host
	AdSize    = ads.AdSize
	Exception = ads.Exception
	AdState   = ads.State

	// Wire format
	MethodCall    = codecpkg.MethodCall
	MethodCodec   = codecpkg.MethodCodec
	MethodError   = codecpkg.MethodError
	MessageCodec  = codecpkg.MessageCodec
	Messenger     = channelpkg.Messenger
	MessengerFunc = channelpkg.MessengerFunc

	Metadata = metadatapkg.Metadata

	LogFields          = loggingpkg.LogFields
	ServiceLogger      = loggingpkg.ServiceLogger
	EntryLogger[T any] = loggingpkg.EntryLogger[T]

	ConfigValidationError = errspkg.ConfigValidationError

	// Modular transport types
	TransportBuilder      = newtransport.Builder
	TransportConfig       = newtransport.Config
	TransportRegistry     = newtransport.Registry
	TransportCapabilities = newtransport.Capabilities
)

var (
	NewService     = runtimepkg.NewService
	TryNewService  = runtimepkg.TryNewService
	ValidateConfig = configpkg.ValidateConfig
	LoadConfig     = configpkg.Load

	DefaultMiddlewares      = runtimepkg.DefaultMiddlewares
	CorrelationIDMiddleware = runtimepkg.CorrelationIDMiddleware
	LogMessagesMiddleware   = runtimepkg.LogMessagesMiddleware
	TracerMiddleware        = runtimepkg.TracerMiddleware
	MetricsMiddleware       = runtimepkg.MetricsMiddleware
	RecovererMiddleware     = runtimepkg.RecovererMiddleware

	NewBridgeMetrics = runtimepkg.NewBridgeMetrics

	NewSimulatedSDK = simulated.New
	NewSDKError     = sdkpkg.NewError
	ErrorIdentifier = sdkpkg.ErrorIdentifier
	ErrorMessage    = sdkpkg.ErrorMessage
	ParseConsent    = sdkpkg.ParseConsent
	SizeFromName    = sdkpkg.SizeFromName

	SizeOf             = ads.SizeOf
	ExceptionFromCode  = ads.ExceptionFromCode
	ExceptionFromError = ads.ExceptionFromError

	// NewMessageCodec is the standard message codec with AdSize and
	// Exception support.
	NewMessageCodec = ads.NewMessageCodec
	NewMethodCodec  = codecpkg.NewMethodCodec
	ChannelTopic    = channelpkg.Topic

	DefaultTransportFactory  = transportpkg.DefaultFactory
	RegistryTransportFactory = transportpkg.RegistryFactory

	// Modular transport registry. Bundled transports register themselves;
	// custom ones can be added with RegisterTransport.
	DefaultTransportRegistry = newtransport.DefaultRegistry
	RegisterTransport        = newtransport.Register
	BuildTransport           = newtransport.Build

	Marshal   = jsoncodec.Marshal
	Unmarshal = jsoncodec.Unmarshal
	Encode    = jsoncodec.Encode
	Decode    = jsoncodec.Decode

	ErrDuplicateHandle   = errspkg.ErrDuplicateHandle
	ErrNotFound          = errspkg.ErrNotFound
	ErrMalformedMessage  = errspkg.ErrMalformedMessage
	ErrUnsupportedValue  = errspkg.ErrUnsupportedValue
	ErrNotImplemented    = errspkg.ErrNotImplemented
	ErrMissingArgument   = errspkg.ErrMissingArgument
	ErrConfigRequired    = errspkg.ErrConfigRequired
	ErrLoggerRequired    = errspkg.ErrLoggerRequired
	ErrSDKRequired       = errspkg.ErrSDKRequired
	ErrPublisherRequired = errspkg.ErrPublisherRequired
	ErrTopicRequired     = errspkg.ErrTopicRequired
	ErrChannelClosed     = errspkg.ErrChannelClosed

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewZapServiceLogger       = loggingpkg.NewZapServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewNopServiceLogger       = loggingpkg.NewNopServiceLogger

	NewMetadata = metadatapkg.New

	NewID = idspkg.New
)

// Metadata keys carried next to every encoded call.
const (
	MetadataKeyChannel       = metadatapkg.KeyChannel
	MetadataKeyMethod        = metadatapkg.KeyMethod
	MetadataKeyCorrelationID = metadatapkg.KeyCorrelationID
	MetadataKeyCodec         = metadatapkg.KeyCodec
	MetadataKeyContentType   = metadatapkg.KeyContentType
	MetadataKeyStatus        = metadatapkg.KeyStatus
)

// Method codec names.
const (
	CodecStandard = codecpkg.CodecStandard
	CodecJSON     = codecpkg.CodecJSON
	CodecProto    = codecpkg.CodecProto
)

// Host commands.
const (
	MethodInit                     = runtimepkg.MethodInit
	MethodHotRestart               = runtimepkg.MethodHotRestart
	MethodLoadAd                   = runtimepkg.MethodLoadAd
	MethodPlayAd                   = runtimepkg.MethodPlayAd
	MethodCanPlayAd                = runtimepkg.MethodCanPlayAd
	MethodLoadBannerAd             = runtimepkg.MethodLoadBannerAd
	MethodDisposeAd                = runtimepkg.MethodDisposeAd
	MethodGetAdSize                = runtimepkg.MethodGetAdSize
	MethodUpdateConsentStatus      = runtimepkg.MethodUpdateConsentStatus
	MethodGetConsentStatus         = runtimepkg.MethodGetConsentStatus
	MethodGetConsentMessageVersion = runtimepkg.MethodGetConsentMessageVersion
	MethodSDKVersion               = runtimepkg.MethodSDKVersion
	MethodGetPlatformVersion       = runtimepkg.MethodGetPlatformVersion
	MethodEnableBackgroundDownload = runtimepkg.MethodEnableBackgroundDownload
)

// Error envelope codes.
const (
	ErrorCodeDuplicateHandle  = runtimepkg.ErrorCodeDuplicateHandle
	ErrorCodeMissingArgument  = runtimepkg.ErrorCodeMissingArgument
	ErrorCodeMalformedMessage = runtimepkg.ErrorCodeMalformedMessage
	ErrorCodeNotImplemented   = runtimepkg.ErrorCodeNotImplemented
	ErrorCodeInternal         = runtimepkg.ErrorCodeInternal
)

// Ad event names carried by onAdEvent.
const (
	AdEventLoad            = runtimepkg.AdEventLoad
	AdEventLoadError       = runtimepkg.AdEventLoadError
	AdEventStart           = runtimepkg.AdEventStart
	AdEventViewed          = runtimepkg.AdEventViewed
	AdEventEnd             = runtimepkg.AdEventEnd
	AdEventClick           = runtimepkg.AdEventClick
	AdEventLeftApplication = runtimepkg.AdEventLeftApplication
	AdEventPlayError       = runtimepkg.AdEventPlayError
)

// Consent values as sent by the host.
const (
	ConsentAccepted = sdkpkg.ConsentAccepted
	ConsentDenied   = sdkpkg.ConsentDenied
)

func NewEntryServiceLogger[T EntryLogger[T]](entry T) ServiceLogger {
	return loggingpkg.NewEntryServiceLogger(entry)
}
