package format

import (
	"github.com/aurorakit/resdiff/pkg/format/gff"
	"github.com/aurorakit/resdiff/pkg/format/ssf"
	"github.com/aurorakit/resdiff/pkg/format/tlk"
	"github.com/aurorakit/resdiff/pkg/format/twoda"
	"github.com/aurorakit/resdiff/pkg/models"
)

type gffCodec struct{}

func (gffCodec) Name() string { return "gff" }

func (gffCodec) Parse(data []byte) (Value, error) {
	return gff.Read(data)
}

func (gffCodec) Serialize(v Value) ([]byte, error) {
	root, ok := v.(*gff.Root)
	if !ok {
		return nil, wrongValue("gff", v)
	}
	return gff.Write(root)
}

func (gffCodec) Empty() Value {
	return gff.New("GFF ")
}

func (gffCodec) Compare(old, new Value) (bool, []models.DeltaEntry, error) {
	o, ok := old.(*gff.Root)
	if !ok {
		return false, nil, wrongValue("gff", old)
	}
	n, ok := new.(*gff.Root)
	if !ok {
		return false, nil, wrongValue("gff", new)
	}
	equal, deltas := o.Compare(n)
	return equal, deltas, nil
}

type twodaCodec struct{}

func (twodaCodec) Name() string { return "2da" }

func (twodaCodec) Parse(data []byte) (Value, error) {
	return twoda.Read(data)
}

func (twodaCodec) Serialize(v Value) ([]byte, error) {
	t, ok := v.(*twoda.Table)
	if !ok {
		return nil, wrongValue("2da", v)
	}
	return twoda.Write(t)
}

func (twodaCodec) Empty() Value {
	return twoda.New()
}

func (twodaCodec) Compare(old, new Value) (bool, []models.DeltaEntry, error) {
	o, ok := old.(*twoda.Table)
	if !ok {
		return false, nil, wrongValue("2da", old)
	}
	n, ok := new.(*twoda.Table)
	if !ok {
		return false, nil, wrongValue("2da", new)
	}
	equal, deltas := o.Compare(n)
	return equal, deltas, nil
}

type tlkCodec struct{}

func (tlkCodec) Name() string { return "tlk" }

func (tlkCodec) Parse(data []byte) (Value, error) {
	return tlk.Read(data)
}

func (tlkCodec) Serialize(v Value) ([]byte, error) {
	t, ok := v.(*tlk.Table)
	if !ok {
		return nil, wrongValue("tlk", v)
	}
	return tlk.Write(t)
}

func (tlkCodec) Empty() Value {
	return tlk.New()
}

func (tlkCodec) Compare(old, new Value) (bool, []models.DeltaEntry, error) {
	o, ok := old.(*tlk.Table)
	if !ok {
		return false, nil, wrongValue("tlk", old)
	}
	n, ok := new.(*tlk.Table)
	if !ok {
		return false, nil, wrongValue("tlk", new)
	}
	equal, deltas := o.Compare(n)
	return equal, deltas, nil
}

type ssfCodec struct{}

func (ssfCodec) Name() string { return "ssf" }

func (ssfCodec) Parse(data []byte) (Value, error) {
	return ssf.Read(data)
}

func (ssfCodec) Serialize(v Value) ([]byte, error) {
	s, ok := v.(*ssf.SoundSet)
	if !ok {
		return nil, wrongValue("ssf", v)
	}
	return ssf.Write(s)
}

func (ssfCodec) Empty() Value {
	return ssf.New()
}

func (ssfCodec) Compare(old, new Value) (bool, []models.DeltaEntry, error) {
	o, ok := old.(*ssf.SoundSet)
	if !ok {
		return false, nil, wrongValue("ssf", old)
	}
	n, ok := new.(*ssf.SoundSet)
	if !ok {
		return false, nil, wrongValue("ssf", new)
	}
	equal, deltas := o.Compare(n)
	return equal, deltas, nil
}
