package booking

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/wedding-reservation/internal/model"
)

// The fakes below implement the engine's ports in memory.  Commit and
// Rollback are no-ops: the engine always writes as the last step of its
// transaction, so tests can observe state directly on the store.

type fakeStore struct {
	reservations []*model.Reservation
	specials     []*model.ReservationSpecial
	groomClans   map[uint64]uint64
	nextID       uint64
}

func (s *fakeStore) Begin(ctx context.Context) (Tx, error) { return &fakeTx{s: s}, nil }

func (s *fakeStore) Window(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]WindowRow, error) {
	return s.window(clanID, countyID, dates), nil
}

func (s *fakeStore) ValidatedSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (bool, error) {
	return s.validatedSpecialOnAny(clanID, countyID, []time.Time{date}), nil
}

func (s *fakeStore) window(clanID, countyID uint64, dates []time.Time) []WindowRow {
	var out []WindowRow
	for _, r := range s.reservations {
		if r.ClanID != clanID || r.CountyID != countyID || !r.Status.Active() {
			continue
		}
		for _, d := range dates {
			if r.Occupies(d) {
				out = append(out, WindowRow{Reservation: *r, GroomClanID: s.groomClans[r.GroomID]})
				break
			}
		}
	}
	return out
}

func (s *fakeStore) validatedSpecialOnAny(clanID, countyID uint64, dates []time.Time) bool {
	for _, sp := range s.specials {
		if sp.ClanID != clanID || sp.CountyID != countyID || sp.Status != model.SpecialValidated {
			continue
		}
		for _, d := range dates {
			if sp.Date.Equal(d) {
				return true
			}
		}
	}
	return false
}

type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

func (t *fakeTx) LockWindow(ctx context.Context, clanID, countyID uint64, dates []time.Time) ([]WindowRow, error) {
	return t.s.window(clanID, countyID, dates), nil
}

func (t *fakeTx) ActiveByGroom(ctx context.Context, groomID, countyID uint64) (*model.Reservation, error) {
	for _, r := range t.s.reservations {
		if r.GroomID == groomID && r.CountyID == countyID && r.Status.Active() {
			return r, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	t.s.nextID++
	r.ID = t.s.nextID
	cp := *r
	t.s.reservations = append(t.s.reservations, &cp)
	return nil
}

func (t *fakeTx) UpdateReservationStatus(ctx context.Context, id uint64, status model.ReservationStatus) error {
	for _, r := range t.s.reservations {
		if r.ID == id {
			r.Status = status
		}
	}
	return nil
}

func (t *fakeTx) UpdatePaymentStatus(ctx context.Context, id uint64, status model.PaymentStatus) error {
	for _, r := range t.s.reservations {
		if r.ID == id {
			r.PaymentStatus = status
		}
	}
	return nil
}

func (t *fakeTx) HasOtherValidated(ctx context.Context, groomID, clanID, countyID, exceptID uint64) (bool, error) {
	for _, r := range t.s.reservations {
		if r.GroomID == groomID && r.ClanID == clanID && r.CountyID == countyID &&
			r.Status == model.StatusValidated && r.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) ValidatedSpecialOnAny(ctx context.Context, clanID, countyID uint64, dates []time.Time) (bool, error) {
	return t.s.validatedSpecialOnAny(clanID, countyID, dates), nil
}

func (t *fakeTx) ActiveSpecialOn(ctx context.Context, clanID, countyID uint64, date time.Time) (*model.ReservationSpecial, error) {
	for _, sp := range t.s.specials {
		if sp.ClanID == clanID && sp.CountyID == countyID && sp.Status == model.SpecialValidated && sp.Date.Equal(date) {
			return sp, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) GetSpecial(ctx context.Context, id uint64) (*model.ReservationSpecial, error) {
	for _, sp := range t.s.specials {
		if sp.ID == id {
			return sp, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) InsertSpecial(ctx context.Context, sp *model.ReservationSpecial) error {
	t.s.nextID++
	sp.ID = t.s.nextID
	cp := *sp
	t.s.specials = append(t.s.specials, &cp)
	return nil
}

func (t *fakeTx) UpdateSpecialStatus(ctx context.Context, id uint64, status model.SpecialStatus) error {
	for _, sp := range t.s.specials {
		if sp.ID == id {
			sp.Status = status
		}
	}
	return nil
}

type fakeClans struct {
	clans    map[uint64]*model.Clan
	settings map[uint64]*model.ClanSettings
}

func (f *fakeClans) ClanByID(ctx context.Context, id uint64) (*model.Clan, error) {
	return f.clans[id], nil
}

func (f *fakeClans) SettingsByClan(ctx context.Context, clanID uint64) (*model.ClanSettings, error) {
	return f.settings[clanID], nil
}

type fakeUsers struct {
	users  map[uint64]*model.User
	admins map[uint64]*model.User
}

func (f *fakeUsers) UserByID(ctx context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUsers) AdminByClan(ctx context.Context, clanID uint64) (*model.User, error) {
	return f.admins[clanID], nil
}

type fakeHalls struct {
	counts map[uint64]int
}

func (f *fakeHalls) CountByClan(ctx context.Context, clanID uint64) (int, error) {
	return f.counts[clanID], nil
}

type fakeNotifier struct {
	events []Event
}

func (f *fakeNotifier) Notify(ctx context.Context, ev Event) error {
	f.events = append(f.events, ev)
	return nil
}

// testEnv is a fully wired engine over the fakes: two clans in county 1
// (clan 1 and clan 2, both accepting cross-clan bookings), one clan in
// county 2, and a handful of grooms.  "Today" is pinned to 2025-06-01.
type testEnv struct {
	store    *fakeStore
	clans    *fakeClans
	users    *fakeUsers
	halls    *fakeHalls
	notifier *fakeNotifier
	svc      *Service
}

func d(t *testing.T, raw string) time.Time {
	t.Helper()
	v, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("bad test date %q: %v", raw, err)
	}
	return v
}

func guardianBirth() *time.Time {
	v := time.Date(1960, 3, 15, 0, 0, 0, 0, time.UTC)
	return &v
}

func newEnv() *testEnv {
	crossCap := 2
	e := &testEnv{
		store: &fakeStore{groomClans: map[uint64]uint64{}},
		clans: &fakeClans{
			clans: map[uint64]*model.Clan{
				1: {ID: 1, CountyID: 1, Name: "Al-Nour"},
				2: {ID: 2, CountyID: 1, Name: "Al-Salam"},
				3: {ID: 3, CountyID: 2, Name: "Al-Fajr"},
			},
			settings: map[uint64]*model.ClanSettings{
				1: {ClanID: 1, MaxGroomsPerDate: 5, AllowTwoDay: true, AllowedMonthsTwoDay: "6,7",
					AllowCrossClan: true, MaxCrossClanPerDate: &crossCap, ValidationDeadlineDays: 3},
				2: {ClanID: 2, MaxGroomsPerDate: 4, AllowTwoDay: false,
					AllowCrossClan: false, ValidationDeadlineDays: 3},
				3: {ClanID: 3, MaxGroomsPerDate: 4, AllowTwoDay: false,
					AllowCrossClan: true, ValidationDeadlineDays: 3},
			},
		},
		users:    &fakeUsers{users: map[uint64]*model.User{}, admins: map[uint64]*model.User{}},
		halls:    &fakeHalls{counts: map[uint64]int{1: 2, 2: 1, 3: 1}},
		notifier: &fakeNotifier{},
	}

	for id := uint64(10); id <= 19; id++ {
		e.addGroom(id, 1, 1, true)
	}
	e.addGroom(20, 1, 1, false) // guardian incomplete
	e.addGroom(30, 2, 1, true)  // clan 2 groom
	e.addGroom(31, 2, 1, true)
	e.addGroom(32, 2, 1, true)
	e.addGroom(40, 3, 2, true) // county 2 groom
	e.users.admins[1] = &model.User{ID: 100, Role: model.RoleClanAdmin, ClanID: 1, CountyID: 1, Name: "Admin One"}

	e.svc = NewService(e.store, e.clans, e.users, e.halls, e.notifier)
	e.svc.now = func() time.Time { return time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC) }
	return e
}

func (e *testEnv) addGroom(id, clanID, countyID uint64, guardianComplete bool) {
	u := &model.User{
		ID: id, Role: model.RoleGroom, ClanID: clanID, CountyID: countyID,
		Name: "Groom", Phone: "0700000000", IsActive: true,
	}
	if guardianComplete {
		u.GuardianName = "Guardian"
		u.GuardianPhone = "0711111111"
		u.GuardianAddress = "Main St"
		u.GuardianBirthDate = guardianBirth()
	}
	e.users.users[id] = u
	e.store.groomClans[id] = clanID
}

func (e *testEnv) seed(t *testing.T, groomID, clanID uint64, date string, mass bool, status model.ReservationStatus) *model.Reservation {
	t.Helper()
	clan := e.clans.clans[clanID]
	e.store.nextID++
	r := &model.Reservation{
		ID: e.store.nextID, GroomID: groomID, ClanID: clanID, CountyID: clan.CountyID,
		Date1: d(t, date), IsMassWedding: mass, Status: status, PaymentStatus: model.PaymentNotPaid,
	}
	e.store.reservations = append(e.store.reservations, r)
	return r
}

func (e *testEnv) seedTwoDay(t *testing.T, groomID, clanID uint64, date string, mass bool, status model.ReservationStatus) *model.Reservation {
	t.Helper()
	r := e.seed(t, groomID, clanID, date, mass, status)
	d2 := r.Date1.AddDate(0, 0, 1)
	r.Date2 = &d2
	r.TwoDay = true
	return r
}

func groomActor(e *testEnv, id uint64) Actor {
	u := e.users.users[id]
	return Actor{ID: u.ID, Role: u.Role, ClanID: u.ClanID, CountyID: u.CountyID}
}

func adminActor() Actor {
	return Actor{ID: 100, Role: model.RoleClanAdmin, ClanID: 1, CountyID: 1}
}

func wantReject(t *testing.T, err error, substr string) {
	t.Helper()
	be, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if be.Status != 400 {
		t.Fatalf("expected status 400, got %d (%s)", be.Status, be.Message)
	}
	if !strings.Contains(be.Message, substr) {
		t.Fatalf("expected message containing %q, got %q", substr, be.Message)
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	e := newEnv()
	res, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID == 0 {
		t.Fatal("expected generated id")
	}
	if res.Status != model.StatusPending {
		t.Fatalf("expected pending_validation, got %s", res.Status)
	}
	if res.PaymentStatus != model.PaymentNotPaid {
		t.Fatalf("expected not_paid, got %s", res.PaymentStatus)
	}
	if res.IsMassWedding {
		t.Fatal("plain request must not be a mass wedding")
	}
	if res.GuardianName != "Guardian" {
		t.Fatalf("guardian snapshot missing, got %q", res.GuardianName)
	}
	if len(e.notifier.events) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(e.notifier.events))
	}
	if ev := e.notifier.events[0]; ev.RecipientID != 100 || ev.Audience != model.AudienceAdmin {
		t.Fatalf("notification should target the clan admin, got %+v", ev)
	}
}

func TestCreateReservationTodayAllowed(t *testing.T) {
	e := newEnv()
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-01",
	}); err != nil {
		t.Fatalf("booking for today must be allowed: %v", err)
	}
}

func TestCreateReservationPastDate(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-05-31",
	})
	wantReject(t, err, "in the past")
}

func TestCreateReservationBadDate(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "10/06/2025",
	})
	wantReject(t, err, "valid YYYY-MM-DD")
}

func TestCreateReservationUnknownClan(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 99, Date1: "2025-06-10",
	})
	be, ok := err.(*Error)
	if !ok || be.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestCreateReservationAlreadyActive(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-20", false, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "already have an active reservation")
}

func TestCreateReservationAfterCancellation(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-20", false, model.StatusCancelled)
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	}); err != nil {
		t.Fatalf("cancelled reservation must not block a new booking: %v", err)
	}
}

func TestCreateReservationGuardianIncomplete(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 20), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "guardian details")
}

func TestCreateReservationSoloConflict(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", false, model.StatusValidated)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "already reserved")
}

func TestCreateReservationSoloPendingConflict(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", false, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "may free up within 3 days")
}

func TestCreateReservationJoinMassWedding(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	res, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", JoinMassWedding: true,
	})
	if err != nil {
		t.Fatalf("joining an open mass wedding must succeed: %v", err)
	}
	if !res.IsMassWedding {
		t.Fatal("joined reservation must carry the mass-wedding flag")
	}
}

func TestCreateReservationAllowOthersAlsoJoins(t *testing.T) {
	// The legacy pair collapses to one flag: allow_others alone is enough
	// to join an existing group.
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", AllowOthers: true,
	}); err != nil {
		t.Fatalf("allow_others must behave as a mass-wedding intent: %v", err)
	}
}

func TestCreateReservationMassWithoutIntent(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "mass wedding")
}

func TestCreateReservationMassAtCapacity(t *testing.T) {
	e := newEnv()
	for id := uint64(11); id <= 15; id++ { // capacity of clan 1 is 5
		e.seed(t, id, 1, "2025-06-10", true, model.StatusPending)
	}
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", JoinMassWedding: true,
	})
	wantReject(t, err, "fully booked")
}

func TestCreateReservationMassOneBelowCapacity(t *testing.T) {
	e := newEnv()
	for id := uint64(11); id <= 14; id++ { // 4 of 5
		e.seed(t, id, 1, "2025-06-10", true, model.StatusPending)
	}
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", JoinMassWedding: true,
	}); err != nil {
		t.Fatalf("joining below capacity must succeed: %v", err)
	}
}

func TestCreateReservationTwoDay(t *testing.T) {
	e := newEnv()
	res, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Date2 == nil || !res.Date2.Equal(d(t, "2025-06-11")) {
		t.Fatalf("date2 must be date1+1d, got %v", res.Date2)
	}
}

func TestCreateReservationTwoDayDisallowed(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 30), CreateRequest{
		ClanID: 2, Date1: "2025-06-10", TwoDay: true,
	})
	wantReject(t, err, "does not allow two-day")
}

func TestCreateReservationTwoDayMonthBoundary(t *testing.T) {
	// June 30 + July 1: both months are on clan 1's list, so this passes.
	e := newEnv()
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-30", TwoDay: true,
	}); err != nil {
		t.Fatalf("month boundary within the allowed list must pass: %v", err)
	}
}

func TestCreateReservationTwoDayMonthBoundaryBlocked(t *testing.T) {
	// July 31 + August 1: August is not on the list.
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-07-31", TwoDay: true,
	})
	wantReject(t, err, "month 8")
}

func TestCreateReservationTwoDayMonthNotAllowed(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-09-10", TwoDay: true,
	})
	wantReject(t, err, "month 9")
}

func TestCreateReservationTwoDayExtendsGroup(t *testing.T) {
	// Group occupies day 1 only: extending it to a second day is allowed.
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true, JoinMassWedding: true,
	}); err != nil {
		t.Fatalf("extending a day-1 group must be allowed: %v", err)
	}
}

func TestCreateReservationTwoDaySecondDayOnly(t *testing.T) {
	// Group occupies day 2 only: joining "from the day before" is refused.
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-11", true, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true, JoinMassWedding: true,
	})
	wantReject(t, err, "second day")
}

func TestCreateReservationTwoDayStraddlesGroups(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	e.seed(t, 12, 1, "2025-06-11", true, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true, JoinMassWedding: true,
	})
	wantReject(t, err, "different mass weddings")
}

func TestCreateReservationTwoDaySameGroupBothDays(t *testing.T) {
	e := newEnv()
	e.seedTwoDay(t, 11, 1, "2025-06-10", true, model.StatusPending)

	// Without the mass intent the request is refused.
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true,
	})
	wantReject(t, err, "mass wedding")

	// With it the candidate joins the group on both days.
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 12), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", TwoDay: true, JoinMassWedding: true,
	}); err != nil {
		t.Fatalf("joining the same group on both days must succeed: %v", err)
	}
}

func TestCreateReservationCrossClan(t *testing.T) {
	e := newEnv()
	res, err := e.svc.CreateReservation(context.Background(), groomActor(e, 30), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	if err != nil {
		t.Fatalf("cross-clan booking into an opted-in clan must succeed: %v", err)
	}
	if res.ClanID != 1 || res.CountyID != 1 {
		t.Fatalf("reservation must target the requested clan, got clan=%d county=%d", res.ClanID, res.CountyID)
	}
}

func TestCreateReservationCrossClanOptedOut(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 2, Date1: "2025-06-10",
	})
	wantReject(t, err, "does not accept reservations from other clans")
}

func TestCreateReservationCrossClanOtherCounty(t *testing.T) {
	e := newEnv()
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 40), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "own county")
}

func TestCreateReservationCrossClanSameClanPriority(t *testing.T) {
	// A pending same-clan mass booking on the date blocks outsiders even
	// though capacity remains.
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 30), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", JoinMassWedding: true,
	})
	wantReject(t, err, "take priority")
}

func TestCreateReservationCrossClanCapReached(t *testing.T) {
	// Clan 1 allows 2 out-of-clan grooms per date.  Seed two validated
	// cross-clan mass bookings; the third outsider is refused.
	e := newEnv()
	e.seed(t, 30, 1, "2025-06-10", true, model.StatusValidated)
	e.seed(t, 31, 1, "2025-06-10", true, model.StatusValidated)
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 32), CreateRequest{
		ClanID: 1, Date1: "2025-06-10", JoinMassWedding: true,
	})
	wantReject(t, err, "out-of-clan")
}

func TestCreateReservationSpecialBlocked(t *testing.T) {
	e := newEnv()
	e.store.specials = append(e.store.specials, &model.ReservationSpecial{
		ID: 900, ClanID: 1, CountyID: 1, Date: d(t, "2025-06-10"), Status: model.SpecialValidated,
	})
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "blocked for a clan event")
}

func TestCreateReservationCancelledSpecialDoesNotBlock(t *testing.T) {
	e := newEnv()
	e.store.specials = append(e.store.specials, &model.ReservationSpecial{
		ID: 900, ClanID: 1, CountyID: 1, Date: d(t, "2025-06-10"), Status: model.SpecialCancelled,
	})
	if _, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	}); err != nil {
		t.Fatalf("cancelled special block must not block bookings: %v", err)
	}
}

func TestCreateReservationNoHalls(t *testing.T) {
	e := newEnv()
	e.halls.counts[1] = 0
	_, err := e.svc.CreateReservation(context.Background(), groomActor(e, 10), CreateRequest{
		ClanID: 1, Date1: "2025-06-10",
	})
	wantReject(t, err, "no halls")
}

func TestValidateReservation(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusPending)
	res, err := e.svc.Validate(context.Background(), adminActor(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != model.StatusValidated {
		t.Fatalf("expected validated, got %s", res.Status)
	}
	if len(e.notifier.events) != 1 || e.notifier.events[0].Audience != model.AudienceGroom {
		t.Fatalf("validation must notify the groom, got %+v", e.notifier.events)
	}
}

func TestValidateAlreadyValidated(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusValidated)
	_, err := e.svc.Validate(context.Background(), adminActor(), 10)
	wantReject(t, err, "already validated")
}

func TestValidateWrongClan(t *testing.T) {
	e := newEnv()
	e.seed(t, 30, 2, "2025-06-10", false, model.StatusPending)
	_, err := e.svc.Validate(context.Background(), adminActor(), 30)
	be, ok := err.(*Error)
	if !ok || be.Status != 403 {
		t.Fatalf("expected 403 for another clan's reservation, got %v", err)
	}
}

func TestValidateNoReservation(t *testing.T) {
	e := newEnv()
	_, err := e.svc.Validate(context.Background(), adminActor(), 10)
	be, ok := err.(*Error)
	if !ok || be.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestValidateBlockedBySpecial(t *testing.T) {
	// A special block validated after the groom's request pre-empts it.
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusPending)
	e.store.specials = append(e.store.specials, &model.ReservationSpecial{
		ID: 900, ClanID: 1, CountyID: 1, Date: d(t, "2025-06-10"), Status: model.SpecialValidated,
	})
	_, err := e.svc.Validate(context.Background(), adminActor(), 10)
	wantReject(t, err, "blocked for a clan event")
}

func TestCancelByGroomPending(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusPending)
	res, err := e.svc.CancelByGroom(context.Background(), groomActor(e, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", res.Status)
	}
}

func TestCancelByGroomValidatedForbidden(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusValidated)
	_, err := e.svc.CancelByGroom(context.Background(), groomActor(e, 10))
	be, ok := err.(*Error)
	if !ok || be.Status != 403 {
		t.Fatalf("expected 403 for validated reservation, got %v", err)
	}
}

func TestCancelByGroomNothingActive(t *testing.T) {
	// Cancelling twice fails the second time: the first cancel leaves no
	// active reservation behind.
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusPending)
	if _, err := e.svc.CancelByGroom(context.Background(), groomActor(e, 10)); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	_, err := e.svc.CancelByGroom(context.Background(), groomActor(e, 10))
	be, ok := err.(*Error)
	if !ok || be.Status != 404 {
		t.Fatalf("expected 404 on repeat cancel, got %v", err)
	}
}

func TestCancelByAdminValidated(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusValidated)
	res, err := e.svc.CancelByAdmin(context.Background(), adminActor(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", res.Status)
	}
	if len(e.notifier.events) != 1 || e.notifier.events[0].Audience != model.AudienceGroom {
		t.Fatalf("admin cancel must notify the groom, got %+v", e.notifier.events)
	}
}

func TestSetPayment(t *testing.T) {
	e := newEnv()
	e.seed(t, 10, 1, "2025-06-10", false, model.StatusValidated)
	res, err := e.svc.SetPayment(context.Background(), adminActor(), 10, model.PaymentPartial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PaymentStatus != model.PaymentPartial {
		t.Fatalf("expected partially_paid, got %s", res.PaymentStatus)
	}
}

func TestCheckAvailability(t *testing.T) {
	e := newEnv()
	e.seed(t, 11, 1, "2025-06-10", true, model.StatusPending)
	e.seed(t, 12, 1, "2025-06-10", true, model.StatusValidated)

	av, err := e.svc.CheckAvailability(context.Background(), 1, "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if av.Capacity != 5 || av.Reserved != 2 {
		t.Fatalf("expected capacity 5 reserved 2, got %+v", av)
	}
	if !av.MassWedding || av.SoloReserved || av.SpecialBlocked {
		t.Fatalf("unexpected flags: %+v", av)
	}
}

func TestCheckAvailabilityFreeDate(t *testing.T) {
	e := newEnv()
	av, err := e.svc.CheckAvailability(context.Background(), 1, "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if av.Reserved != 0 || av.MassWedding || av.SoloReserved || av.SpecialBlocked {
		t.Fatalf("expected a free slot, got %+v", av)
	}
}
