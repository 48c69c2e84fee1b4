package event

import (
	"reflect"
	"strings"
	"sync"
)

var (
	registryOnce  sync.Once
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

// registerType maps a name to an EventType and its payload struct type
// payloadInstance is a pointer to the payload struct, nil when the event has none
func registerType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

func initRegistry() {
	registryOnce.Do(func() {
		registerType("EventLoopReset", EventLoopReset, &LoopResetPayload{})
		registerType("EventSeekStart", EventSeekStart, &SeekPayload{})
		registerType("EventSeekEnd", EventSeekEnd, &SeekPayload{})
		registerType("EventMomentFired", EventMomentFired, &MomentFiredPayload{})
		registerType("EventBranchTaken", EventBranchTaken, &BranchPayload{})
		registerType("EventPortalJump", EventPortalJump, &PortalJumpPayload{})
		registerType("EventSoundRequest", EventSoundRequest, &SoundRequestPayload{})
	})
}

// GetEventType returns the EventType for a name; "Tick" resolves to EventTick
func GetEventType(name string) (EventType, bool) {
	if strings.EqualFold(name, "Tick") {
		return EventTick, true
	}
	initRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the registered name for an EventType
func GetEventName(et EventType) string {
	if et == EventTick {
		return "Tick"
	}
	initRegistry()
	return typeToName[et]
}

// NewPayloadStruct returns a pointer to a zero payload for the event type, nil if it has none
func NewPayloadStruct(et EventType) any {
	initRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// String implements fmt.Stringer
func (et EventType) String() string {
	if name := GetEventName(et); name != "" {
		return name
	}
	return "EventUnknown"
}
