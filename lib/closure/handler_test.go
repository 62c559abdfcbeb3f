package closure

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	candidatestore "hiring-flow-backend/lib/candidate/store"
	"hiring-flow-backend/lib/notify"
	historystore "hiring-flow-backend/lib/requisition/history-store"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	"hiring-flow-backend/models"
	candidateapimodels "hiring-flow-backend/models/api/candidate"
	requisitionapimodels "hiring-flow-backend/models/api/requisition"
	dbmodels "hiring-flow-backend/models/db"
)

const testSpace = "space1"

type fakeRqStore struct {
	recs map[string]*dbmodels.Requisition
}

func (f *fakeRqStore) WithTx(tx *gorm.DB) requisitionstore.Provider { return f }
func (f *fakeRqStore) Create(rec dbmodels.Requisition) (string, error) {
	return "", nil
}
func (f *fakeRqStore) CreateStep(rec dbmodels.ApprovalStep) (string, error) { return "", nil }
func (f *fakeRqStore) GetByID(spaceID, id string) (*dbmodels.Requisition, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	snapshot := *rec
	return &snapshot, nil
}
func (f *fakeRqStore) ListByBatchForUpdate(spaceID, batchID string) ([]dbmodels.Requisition, error) {
	list := []dbmodels.Requisition{}
	for n := 1; n <= len(f.recs); n++ {
		rec, ok := f.recs[fmt.Sprintf("rq%d", n)]
		if ok && rec.BatchID == batchID {
			list = append(list, *rec)
		}
	}
	return list, nil
}
func (f *fakeRqStore) Update(spaceID, id string, updMap map[string]interface{}) error { return nil }
func (f *fakeRqStore) CasUpdate(spaceID, id string, cond map[string]interface{}, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok {
		return false, nil
	}
	if v, ok := cond["status"]; ok && v.(models.RqStatus) != rec.Status {
		return false, nil
	}
	if v, ok := updMap["status"]; ok {
		rec.Status = v.(models.RqStatus)
	}
	if v, ok := updMap["closure_reason"]; ok {
		rec.ClosureReason = v.(models.ClosureReason)
	}
	return true, nil
}
func (f *fakeRqStore) UpdateStepIf(spaceID, stepID string, fromStatus models.ApprovalStepStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}
func (f *fakeRqStore) UpdateStep(spaceID, stepID string, updMap map[string]interface{}) error {
	return nil
}
func (f *fakeRqStore) List(spaceID string, filter requisitionapimodels.RqFilter) ([]dbmodels.Requisition, error) {
	return nil, nil
}
func (f *fakeRqStore) ListCount(spaceID string, filter requisitionapimodels.RqFilter) (int64, error) {
	return 0, nil
}
func (f *fakeRqStore) CountByBrandScope(spaceID, brandID string, since time.Time) (int64, error) {
	return 0, nil
}
func (f *fakeRqStore) ListPendingOlderThan(moment time.Time) ([]dbmodels.Requisition, error) {
	return nil, nil
}

type fakeCandidateStore struct {
	hired int64
}

func (f *fakeCandidateStore) WithTx(tx *gorm.DB) candidatestore.Provider         { return f }
func (f *fakeCandidateStore) Create(rec dbmodels.Candidate) (string, error)      { return "", nil }
func (f *fakeCandidateStore) GetByID(spaceID, id string) (*dbmodels.Candidate, error) {
	return nil, nil
}
func (f *fakeCandidateStore) GetByIDForUpdate(spaceID, id string) (*dbmodels.Candidate, error) {
	return nil, nil
}
func (f *fakeCandidateStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f *fakeCandidateStore) CreateApplication(rec dbmodels.Application) (string, error) {
	return "", nil
}
func (f *fakeCandidateStore) GetApplication(spaceID, id string) (*dbmodels.Application, error) {
	return nil, nil
}
func (f *fakeCandidateStore) UpdateApplication(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}
func (f *fakeCandidateStore) UpdateApplicationIf(spaceID, id string, fromStatus models.ApplicationStatus, updMap map[string]interface{}) (bool, error) {
	return false, nil
}
func (f *fakeCandidateStore) CountHired(spaceID string, requisitionIDs []string) (int64, error) {
	return f.hired, nil
}
func (f *fakeCandidateStore) List(spaceID string, filter candidateapimodels.CandidateFilter) ([]dbmodels.Candidate, error) {
	return nil, nil
}
func (f *fakeCandidateStore) ListCount(spaceID string, filter candidateapimodels.CandidateFilter) (int64, error) {
	return 0, nil
}
func (f *fakeCandidateStore) Count(spaceID string) (int64, error) { return 0, nil }

type fakeHistoryStore struct {
	recs []dbmodels.ApprovalHistory
}

func (f *fakeHistoryStore) WithTx(tx *gorm.DB) historystore.Provider { return f }
func (f *fakeHistoryStore) Create(rec dbmodels.ApprovalHistory) (string, error) {
	f.recs = append(f.recs, rec)
	return fmt.Sprintf("h%d", len(f.recs)), nil
}
func (f *fakeHistoryStore) List(spaceID, requisitionID string) ([]dbmodels.ApprovalHistory, error) {
	return f.recs, nil
}

type fakeOrgDir struct{}

func (f fakeOrgDir) ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeOrgDir) GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeOrgDir) GetUser(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	user := &dbmodels.SpaceUser{Email: "author@example.com"}
	user.ID = userID
	return user, nil
}
func (f fakeOrgDir) GetBrand(spaceID, id string) (*dbmodels.Brand, error)     { return nil, nil }
func (f fakeOrgDir) GetStore(spaceID, id string) (*dbmodels.Store, error)     { return nil, nil }
func (f fakeOrgDir) GetJobPosition(spaceID, id string) (*dbmodels.JobPosition, error) {
	return nil, nil
}
func (f fakeOrgDir) GetUnit(spaceID, id string) (*dbmodels.ManagementUnit, error) {
	return nil, nil
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Emit(event notify.Event) {
	f.events = append(f.events, event)
}

func newHandler(rqStore *fakeRqStore, hired int64, history *fakeHistoryStore, notifier *fakeNotifier) impl {
	return impl{
		rqStore:        rqStore,
		candidateStore: &fakeCandidateStore{hired: hired},
		historyStore:   history,
		orgDir:         fakeOrgDir{},
		notifier:       notifier,
		tx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}
}

func makeBatch(statuses ...models.RqStatus) *fakeRqStore {
	store := &fakeRqStore{recs: map[string]*dbmodels.Requisition{}}
	for n, status := range statuses {
		rec := &dbmodels.Requisition{
			Code:           fmt.Sprintf("RQ-ACME-26-%05d", n+1),
			BatchID:        "batch1",
			BatchIndex:     n + 1,
			BatchSize:      len(statuses),
			TotalHeadcount: len(statuses),
			Headcount:      1,
			AuthorID:       "author",
			Status:         status,
		}
		rec.ID = fmt.Sprintf("rq%d", n+1)
		rec.SpaceID = testSpace
		store.recs[rec.ID] = rec
	}
	return store
}

func TestOnHireConfirmed(t *testing.T) {
	t.Run("потребность не набрана - пачка остается открытой", func(t *testing.T) {
		store := makeBatch(models.RqStatusPublished, models.RqStatusPublished, models.RqStatusPublished)
		history := &fakeHistoryStore{}
		handler := newHandler(store, 2, history, &fakeNotifier{})

		err := handler.OnHireConfirmed(testSpace, "rq1", "recruiter")
		require.Nil(t, err)
		for _, rec := range store.recs {
			require.Equal(t, models.RqStatusPublished, rec.Status)
		}
		require.Len(t, history.recs, 0)
	})

	t.Run("потребность набрана - все опубликованные экземпляры закрываются", func(t *testing.T) {
		store := makeBatch(models.RqStatusPublished, models.RqStatusPublished, models.RqStatusPublished)
		history := &fakeHistoryStore{}
		notifier := &fakeNotifier{}
		handler := newHandler(store, 3, history, notifier)

		err := handler.OnHireConfirmed(testSpace, "rq1", "recruiter")
		require.Nil(t, err)
		for _, rec := range store.recs {
			require.Equal(t, models.RqStatusClosed, rec.Status)
			require.Equal(t, models.ClosureHeadcountFilled, rec.ClosureReason)
		}
		require.Len(t, history.recs, 3)
		for _, rec := range history.recs {
			require.Equal(t, models.HActionClosed, rec.Action)
		}
		require.Len(t, notifier.events, 3)
		require.Equal(t, notify.EventRequisitionClosed, notifier.events[0].Type)
		require.Equal(t, "author@example.com", notifier.events[0].RecipientEmail)
	})

	t.Run("уже закрытые и отмененные экземпляры не трогаются", func(t *testing.T) {
		store := makeBatch(models.RqStatusPublished, models.RqStatusClosed, models.RqStatusCancelled)
		history := &fakeHistoryStore{}
		handler := newHandler(store, 3, history, &fakeNotifier{})

		err := handler.OnHireConfirmed(testSpace, "rq1", "recruiter")
		require.Nil(t, err)
		require.Equal(t, models.RqStatusClosed, store.recs["rq1"].Status)
		require.Equal(t, models.RqStatusCancelled, store.recs["rq3"].Status)
		require.Len(t, history.recs, 1)
	})

	t.Run("повторный вызов безвреден", func(t *testing.T) {
		store := makeBatch(models.RqStatusPublished, models.RqStatusPublished)
		history := &fakeHistoryStore{}
		handler := newHandler(store, 2, history, &fakeNotifier{})

		require.Nil(t, handler.OnHireConfirmed(testSpace, "rq1", "recruiter"))
		require.Nil(t, handler.OnHireConfirmed(testSpace, "rq1", "recruiter"))
		require.Len(t, history.recs, 2)
	})

	t.Run("неизвестная заявка - no-op", func(t *testing.T) {
		store := makeBatch(models.RqStatusPublished)
		history := &fakeHistoryStore{}
		handler := newHandler(store, 1, history, &fakeNotifier{})

		require.Nil(t, handler.OnHireConfirmed(testSpace, "missing", "recruiter"))
		require.Len(t, history.recs, 0)
	})
}
