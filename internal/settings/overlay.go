package settings

import "context"

// Overrides replace individual target fields when set.
type Overrides struct {
	Endpoint string
	Mode     string
	LobbyKey *uint64
}

// Overlay applies fixed overrides on top of another store.
type Overlay struct {
	base Store
	over Overrides
}

func NewOverlay(base Store, over Overrides) *Overlay {
	return &Overlay{base: base, over: over}
}

func (o *Overlay) Load(ctx context.Context) (Target, error) {
	t, err := o.base.Load(ctx)
	if err != nil {
		return t, err
	}
	if o.over.Endpoint != "" {
		t.Endpoint = o.over.Endpoint
	}
	if o.over.Mode != "" {
		t.Mode = ParseMode(o.over.Mode)
	}
	if o.over.LobbyKey != nil {
		t.LobbyKey = *o.over.LobbyKey
	}
	return t, nil
}
