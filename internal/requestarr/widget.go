// Package requestarr implements the media search and request widget: a
// search box bound to one Sonarr or Radarr instance, a list of result
// cards, and the request action that flips a card to "requested" without
// refetching.
package requestarr

import (
	"context"
	"fmt"

	"github.com/fletchd/arrdash/internal/api"
)

// Backend is the slice of the API client the widget needs.
type Backend interface {
	RequestarrInstances(ctx context.Context) (*api.InstanceSet, error)
	SearchMedia(ctx context.Context, q, appType, instanceName string) ([]api.MediaItem, error)
	RequestMedia(ctx context.Context, payload api.RequestPayload) (*api.RequestResult, error)
}

// Button is the request button state on one result card.
type Button struct {
	Label   string
	Enabled bool
}

// buttonFor maps an availability status to the card's button state.
func buttonFor(av api.Availability) Button {
	switch av.Status {
	case api.StatusAvailable:
		return Button{Label: "Available"}
	case api.StatusAvailableToRequestMissing:
		return Button{Label: "Request Missing", Enabled: true}
	case api.StatusRequested:
		return Button{Label: "Already Requested"}
	case api.StatusAvailableToRequest:
		return Button{Label: "Request", Enabled: true}
	case api.StatusError:
		return Button{Label: "Unavailable"}
	default:
		// Unknown statuses render as-is, disabled, so a newer backend
		// does not break the widget.
		return Button{Label: av.Status}
	}
}

// Card is one rendered search result.
type Card struct {
	Item   api.MediaItem
	Button Button
}

// StatusLine is the card's availability text under the title.
func (c Card) StatusLine() string {
	if c.Item.Availability.Message != "" {
		return c.Item.Availability.Message
	}
	return c.Item.Availability.Status
}

// Widget holds the search/request state for one section.
type Widget struct {
	backend Backend

	instances    *api.InstanceSet
	appType      string
	instanceName string

	Query  string
	Cards  []Card
	Status string // inline status text: errors, "No results", etc.
}

// New creates a widget over the given backend.
func New(backend Backend) *Widget {
	return &Widget{backend: backend}
}

// LoadInstances fetches the request-capable instances and selects the
// first one as the default target.
func (w *Widget) LoadInstances(ctx context.Context) error {
	set, err := w.backend.RequestarrInstances(ctx)
	if err != nil {
		w.Status = api.ShortMessage(err)
		return err
	}
	w.instances = set

	switch {
	case len(set.Radarr) > 0:
		w.SelectInstance(api.AppRadarr, set.Radarr[0].Name)
	case len(set.Sonarr) > 0:
		w.SelectInstance(api.AppSonarr, set.Sonarr[0].Name)
	default:
		w.Status = "No request-capable instances configured"
	}
	return nil
}

// Instances returns the fetched instance set, if loaded.
func (w *Widget) Instances() *api.InstanceSet {
	return w.instances
}

// SelectInstance targets subsequent searches and requests at one instance.
func (w *Widget) SelectInstance(appType, name string) {
	w.appType = appType
	w.instanceName = name
}

// Selected returns the targeted app type and instance name.
func (w *Widget) Selected() (appType, name string) {
	return w.appType, w.instanceName
}

// Search queries the selected instance and rebuilds the result cards.
func (w *Widget) Search(ctx context.Context, q string) error {
	if w.instanceName == "" {
		w.Status = "Select an instance first"
		return fmt.Errorf("no instance selected")
	}
	w.Query = q

	results, err := w.backend.SearchMedia(ctx, q, w.appType, w.instanceName)
	if err != nil {
		w.Cards = nil
		w.Status = api.ShortMessage(err)
		return err
	}

	w.Cards = make([]Card, len(results))
	for i, item := range results {
		w.Cards[i] = Card{Item: item, Button: buttonFor(item.Availability)}
	}
	if len(w.Cards) == 0 {
		w.Status = "No results"
	} else {
		w.Status = ""
	}
	return nil
}

// Request submits the request for the i-th card. On success the card
// flips to the requested state in place; the result list is not
// refetched.
func (w *Widget) Request(ctx context.Context, i int) error {
	if i < 0 || i >= len(w.Cards) {
		return fmt.Errorf("no such result: %d", i)
	}
	card := &w.Cards[i]
	if !card.Button.Enabled {
		return nil
	}

	item := card.Item
	result, err := w.backend.RequestMedia(ctx, api.RequestPayload{
		TMDBID:       item.TMDBID,
		MediaType:    item.MediaType,
		Title:        item.Title,
		Year:         item.Year,
		Overview:     item.Overview,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		AppType:      w.appType,
		InstanceName: w.instanceName,
	})
	if err != nil {
		w.Status = api.ShortMessage(err)
		return err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Request failed"
		}
		w.Status = msg
		return fmt.Errorf("request rejected: %s", msg)
	}

	card.Button = Button{Label: "Requested"}
	card.Item.Availability = api.Availability{
		Status:  api.StatusRequested,
		Message: result.Message,
	}
	w.Status = ""
	return nil
}
