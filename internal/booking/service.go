package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// Service is the reservation lifecycle manager.  It orchestrates the
// conflict-resolution chain inside one request-scoped transaction and
// emits notification events after commit.
type Service struct {
	store Store
	clans Clans
	users Users
	halls Halls
	notifier Notifier
	now   func() time.Time
}

// NewService wires the booking service.  The notifier may be nil, in which
// case state transitions simply produce no events.
func NewService(store Store, clans Clans, users Users, halls Halls, notifier Notifier) *Service {
	if store == nil || clans == nil || users == nil || halls == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		store:    store,
		clans:    clans,
		users:    users,
		halls:    halls,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest is a candidate booking as submitted by a groom.  The two
// legacy mass-wedding intents are accepted separately and OR-ed into the
// stored flag.
type CreateRequest struct {
	ClanID            uint64  `json:"clan_id"`
	Date1             string  `json:"date1"`
	TwoDay            bool    `json:"date2_bool"`
	JoinMassWedding   bool    `json:"join_to_mass_wedding"`
	AllowOthers       bool    `json:"allow_others"`
	HallID            *uint64 `json:"hall_id"`
	HaiaCommitteeID   *uint64 `json:"haia_committee_id"`
	MadaehCommitteeID *uint64 `json:"madaeh_committee_id"`
}

// CreateReservation runs the full rule chain for a candidate booking and,
// when every check passes, persists a pending_validation reservation with
// the groom's snapshot and notifies the target clan's admin.
//
// Check order is fixed; the first failing check aborts with its reason:
// active reservation, guardian completeness, solo conflict, mass-wedding
// conflict, cross-clan restrictions, total capacity, special-date block,
// hall availability.  Checks that read the calendar run after LockWindow
// so concurrent requests for the same dates serialize.
func (s *Service) CreateReservation(ctx context.Context, actor Actor, req CreateRequest) (*model.Reservation, error) {
	date1, err := ParseDate(req.Date1)
	if err != nil {
		return nil, reject("date1 must be a valid YYYY-MM-DD date")
	}

	clan, err := s.clans.ClanByID(ctx, req.ClanID)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, notFound("clan %d not found", req.ClanID)
	}
	settings, err := s.clans.SettingsByClan(ctx, clan.ID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		// A clan with no settings row cannot receive bookings.
		return nil, notFound("clan %d is not configured for reservations", clan.ID)
	}

	dates, rerr := requestedDates(day(s.now()), date1, req.TwoDay, settings)
	if rerr != nil {
		return nil, rerr
	}

	groom, err := s.users.UserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if groom == nil {
		return nil, notFound("groom %d not found", actor.ID)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Rule 1: one active reservation per groom per county.
	active, err := tx.ActiveByGroom(ctx, actor.ID, clan.CountyID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, reject("you already have an active reservation in this county")
	}

	// Rule 2: guardian details feed the legal paperwork downstream.
	if !groom.GuardianComplete() {
		return nil, reject("guardian details are incomplete; complete them before booking")
	}

	// Rules 3-6 evaluate over the locked window.
	rows, err := tx.LockWindow(ctx, clan.ID, clan.CountyID, dates)
	if err != nil {
		return nil, err
	}
	w := &window{rows: rows}
	wantsMass := req.JoinMassWedding || req.AllowOthers

	if rerr := checkSolo(w, dates, settings); rerr != nil {
		return nil, rerr
	}
	if rerr := checkMassWedding(w, dates, wantsMass, settings); rerr != nil {
		return nil, rerr
	}
	if rerr := checkCrossClan(w, actor, clan, settings, dates); rerr != nil {
		return nil, rerr
	}
	if rerr := checkCapacity(w, dates, settings); rerr != nil {
		return nil, rerr
	}

	// Rule 7: validated special blocks pre-empt groom bookings.
	blocked, err := tx.ValidatedSpecialOnAny(ctx, clan.ID, clan.CountyID, dates)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, reject("the requested date is blocked for a clan event")
	}

	// Rule 8: the clan must have somewhere to hold the wedding.
	hallCount, err := s.halls.CountByClan(ctx, clan.ID)
	if err != nil {
		return nil, err
	}
	if hallCount == 0 {
		return nil, reject("this clan has no halls available")
	}

	res := &model.Reservation{
		GroomID:           actor.ID,
		ClanID:            clan.ID,
		CountyID:          clan.CountyID,
		Date1:             dates[0],
		TwoDay:            req.TwoDay,
		IsMassWedding:     wantsMass,
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentNotPaid,
		HallID:            req.HallID,
		HaiaCommitteeID:   req.HaiaCommitteeID,
		MadaehCommitteeID: req.MadaehCommitteeID,
		GroomName:         groom.Name,
		GroomPhone:        groom.Phone,
		GroomBirthDate:    groom.BirthDate,
		GroomBirthPlace:   groom.BirthPlace,
		GroomAddress:      groom.Address,
		GuardianName:      groom.GuardianName,
		GuardianPhone:     groom.GuardianPhone,
		GuardianAddress:   groom.GuardianAddress,
		GuardianBirthDate: groom.GuardianBirthDate,
	}
	if len(dates) == 2 {
		d2 := dates[1]
		res.Date2 = &d2
	}
	if err := tx.InsertReservation(ctx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.notifyAdmin(ctx, res, "New reservation",
		fmt.Sprintf("%s requested %s", groom.Name, describeDates(res)))
	return res, nil
}

// Availability is the unlocked read model behind GET /v1/availability.
type Availability struct {
	ClanID         uint64 `json:"clan_id"`
	Date           string `json:"date"`
	Capacity       int    `json:"capacity"`
	Reserved       int    `json:"reserved"`
	MassWedding    bool   `json:"mass_wedding"`
	SoloReserved   bool   `json:"solo_reserved"`
	SpecialBlocked bool   `json:"special_blocked"`
}

// CheckAvailability summarizes the state of one clan/date slot.  Reads are
// unlocked; the answer is advisory and may race with concurrent bookings.
func (s *Service) CheckAvailability(ctx context.Context, clanID uint64, rawDate string) (*Availability, error) {
	date, err := ParseDate(rawDate)
	if err != nil {
		return nil, reject("date must be a valid YYYY-MM-DD date")
	}
	clan, err := s.clans.ClanByID(ctx, clanID)
	if err != nil {
		return nil, err
	}
	if clan == nil {
		return nil, notFound("clan %d not found", clanID)
	}
	settings, err := s.clans.SettingsByClan(ctx, clan.ID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, notFound("clan %d is not configured for reservations", clan.ID)
	}
	rows, err := s.store.Window(ctx, clan.ID, clan.CountyID, []time.Time{date})
	if err != nil {
		return nil, err
	}
	blocked, err := s.store.ValidatedSpecialOn(ctx, clan.ID, clan.CountyID, date)
	if err != nil {
		return nil, err
	}
	w := &window{rows: rows}
	return &Availability{
		ClanID:         clan.ID,
		Date:           date.Format(dateLayout),
		Capacity:       settings.MaxGroomsPerDate,
		Reserved:       w.countOn(date),
		MassWedding:    len(w.massGroomsOn(date)) > 0,
		SoloReserved:   len(w.soloOn(date)) > 0,
		SpecialBlocked: blocked,
	}, nil
}

// describeDates renders the occupied dates for notification text.
func describeDates(r *model.Reservation) string {
	if r.Date2 != nil {
		return fmt.Sprintf("%s and %s", r.Date1.Format(dateLayout), r.Date2.Format(dateLayout))
	}
	return r.Date1.Format(dateLayout)
}

// notifyAdmin dispatches a best-effort event to the target clan's admin.
// Failures are logged and never affect the committed reservation.
func (s *Service) notifyAdmin(ctx context.Context, r *model.Reservation, title, msg string) {
	if s.notifier == nil {
		return
	}
	admin, err := s.users.AdminByClan(ctx, r.ClanID)
	if err != nil || admin == nil {
		log.Printf("booking: no admin to notify for clan %d: %v", r.ClanID, err)
		return
	}
	s.dispatch(ctx, r, admin.ID, model.AudienceAdmin, title, msg)
}

// notifyGroom dispatches a best-effort event to the reservation's groom.
func (s *Service) notifyGroom(ctx context.Context, r *model.Reservation, title, msg string) {
	if s.notifier == nil {
		return
	}
	s.dispatch(ctx, r, r.GroomID, model.AudienceGroom, title, msg)
}

func (s *Service) dispatch(ctx context.Context, r *model.Reservation, recipient uint64, aud model.Audience, title, msg string) {
	ev := Event{
		ReservationID: r.ID,
		RecipientID:   recipient,
		Audience:      aud,
		Title:         title,
		Message:       msg,
		ClanID:        r.ClanID,
		CountyID:      r.CountyID,
		Date1:         r.Date1.Format(dateLayout),
		OccurredAt:    s.now().Format(time.RFC3339),
	}
	if r.Date2 != nil {
		ev.Date2 = r.Date2.Format(dateLayout)
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		log.Printf("booking: notify failed for reservation %d: %v", r.ID, err)
	}
}
