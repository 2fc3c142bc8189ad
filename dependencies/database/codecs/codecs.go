// Package codecs encodes documents to and from BSON, with support for the
// protobuf well known wrapper and timestamp types.
package codecs

import (
	"bytes"
	"errors"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	// Protobuf’s wrappers types, all of them carry a single Value field.
	wrapperTypes = []reflect.Type{
		reflect.TypeOf(wrapperspb.BoolValue{}),
		reflect.TypeOf(wrapperspb.BytesValue{}),
		reflect.TypeOf(wrapperspb.DoubleValue{}),
		reflect.TypeOf(wrapperspb.FloatValue{}),
		reflect.TypeOf(wrapperspb.Int32Value{}),
		reflect.TypeOf(wrapperspb.Int64Value{}),
		reflect.TypeOf(wrapperspb.StringValue{}),
		reflect.TypeOf(wrapperspb.UInt32Value{}),
		reflect.TypeOf(wrapperspb.UInt64Value{}),
	}

	timestampType = reflect.TypeOf(timestamppb.Timestamp{})
	timeType      = reflect.TypeOf(time.Time{})

	wrapperValueCodecRef = &wrapperValueCodec{}
	timestampCodecRef    = &timestampCodec{}
)

const valueTag = "Value"

// wrapperValueCodec stores a protobuf wrapper as its bare value.
type wrapperValueCodec struct{}

// EncodeValue encodes Protobuf type wrapper value to BSON value
func (e *wrapperValueCodec) EncodeValue(ectx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	val = val.FieldByName(valueTag)
	enc, err := ectx.LookupEncoder(val.Type())
	if err != nil {
		return err
	}
	return enc.EncodeValue(ectx, vw, val)
}

// DecodeValue decodes BSON value to Protobuf type wrapper value
func (e *wrapperValueCodec) DecodeValue(dctx bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	val = val.FieldByName(valueTag)
	dec, err := dctx.LookupDecoder(val.Type())
	if err != nil {
		return err
	}
	return dec.DecodeValue(dctx, vr, val)
}

// timestampCodec stores a protobuf Timestamp as a BSON datetime.
type timestampCodec struct{}

// EncodeValue encodes Protobuf Timestamp value to BSON value
func (e *timestampCodec) EncodeValue(ectx bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.CanAddr() {
		return errors.New("value is not timestamp addr")
	}
	ts, ok := val.Addr().Interface().(*timestamppb.Timestamp)
	if !ok {
		return errors.New("value is not *timestamppb.Timestamp")
	}
	enc, err := ectx.LookupEncoder(timeType)
	if err != nil {
		return err
	}
	return enc.EncodeValue(ectx, vw, reflect.ValueOf(ts.AsTime()))
}

// DecodeValue decodes BSON value to Timestamp value
func (e *timestampCodec) DecodeValue(dctx bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanAddr() {
		return errors.New("value is not timestamp addr")
	}
	ts, ok := val.Addr().Interface().(*timestamppb.Timestamp)
	if !ok {
		return errors.New("value is not *timestamppb.Timestamp")
	}
	dec, err := dctx.LookupDecoder(timeType)
	if err != nil {
		return err
	}
	var t time.Time
	if err = dec.DecodeValue(dctx, vr, reflect.ValueOf(&t).Elem()); err != nil {
		return err
	}
	t = t.UTC()
	ts.Seconds = t.Unix()
	ts.Nanos = int32(t.Nanosecond())
	return nil
}

// DefaultRegistry is the registry used by Marshal and Unmarshal.
var DefaultRegistry = NewRegistry()

// NewRegistry the bson registry with the protobuf types registered.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	for _, t := range wrapperTypes {
		reg.RegisterTypeEncoder(t, wrapperValueCodecRef)
		reg.RegisterTypeDecoder(t, wrapperValueCodecRef)
	}
	reg.RegisterTypeEncoder(timestampType, timestampCodecRef)
	reg.RegisterTypeDecoder(timestampType, timestampCodecRef)
	return reg
}

// Marshal encodes a struct, map or bson.D to a raw BSON document.
// Field names come from the json tags.
func Marshal(val any) (bson.Raw, error) {
	buf := &bytes.Buffer{}
	vw, err := bsonrw.NewBSONValueWriter(buf)
	if err != nil {
		return nil, err
	}
	enc, err := bson.NewEncoder(vw)
	if err != nil {
		return nil, err
	}
	if err = enc.SetRegistry(DefaultRegistry); err != nil {
		return nil, err
	}
	enc.UseJSONStructTags()
	enc.NilMapAsEmpty()
	enc.NilSliceAsEmpty()
	if err = enc.Encode(val); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a raw BSON document into val, nested documents
// become bson.M when val leaves their type open.
func Unmarshal(data bson.Raw, val any) error {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	if err != nil {
		return err
	}
	if err = dec.SetRegistry(DefaultRegistry); err != nil {
		return err
	}
	dec.UseJSONStructTags()
	dec.DefaultDocumentM()
	return dec.Decode(val)
}

// EncodeToMap encodes any document to a bson.M.
func EncodeToMap(val any) (bson.M, error) {
	raw, err := Marshal(val)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err = Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeMap decodes a stored document into val.
func DecodeMap(m bson.M, val any) error {
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	return Unmarshal(raw, val)
}
