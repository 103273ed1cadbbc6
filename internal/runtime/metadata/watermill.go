package metadata

import "github.com/ThreeDotsLabs/watermill/message"

// FromWatermill copies message headers into Metadata.
func FromWatermill(md message.Metadata) Metadata {
	return Metadata(md).Clone()
}

// ToWatermill copies Metadata into a fresh watermill header map.
func ToWatermill(md Metadata) message.Metadata {
	return message.Metadata(md.Clone())
}

// Apply sets every entry of md on msg.
func Apply(msg *message.Message, md Metadata) {
	for k, v := range md {
		msg.Metadata.Set(k, v)
	}
}
