// Package transports registers every bundled backend with the default
// registry. Import it for its side effects.
package transports

import (
	_ "github.com/drblury/adbridge/transport/aws"
	_ "github.com/drblury/adbridge/transport/channel"
	_ "github.com/drblury/adbridge/transport/http"
	_ "github.com/drblury/adbridge/transport/kafka"
	_ "github.com/drblury/adbridge/transport/nats"
	_ "github.com/drblury/adbridge/transport/rabbitmq"
)
