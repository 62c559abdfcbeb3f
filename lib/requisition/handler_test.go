package requisition

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	approvalresolve "hiring-flow-backend/lib/approval-resolve"
	"hiring-flow-backend/lib/notify"
	historystore "hiring-flow-backend/lib/requisition/history-store"
	requisitionstore "hiring-flow-backend/lib/requisition/store"
	"hiring-flow-backend/lib/sequence"
	"hiring-flow-backend/models"
	requisitionapimodels "hiring-flow-backend/models/api/requisition"
	dbmodels "hiring-flow-backend/models/db"
	"hiring-flow-backend/models/errs"
)

const testSpace = "space1"

type fakeRqStore struct {
	recs    map[string]*dbmodels.Requisition
	counter int
}

func newFakeRqStore() *fakeRqStore {
	return &fakeRqStore{recs: map[string]*dbmodels.Requisition{}}
}

func (f *fakeRqStore) WithTx(tx *gorm.DB) requisitionstore.Provider { return f }

func (f *fakeRqStore) Create(rec dbmodels.Requisition) (string, error) {
	f.counter++
	rec.ID = fmt.Sprintf("rq%d", f.counter)
	f.recs[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeRqStore) CreateStep(rec dbmodels.ApprovalStep) (string, error) {
	f.counter++
	rec.ID = fmt.Sprintf("step%d", f.counter)
	parent := f.recs[rec.RequisitionID]
	parent.Steps = append(parent.Steps, rec)
	return rec.ID, nil
}

func (f *fakeRqStore) GetByID(spaceID, id string) (*dbmodels.Requisition, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, nil
	}
	snapshot := *rec
	snapshot.Steps = append([]dbmodels.ApprovalStep{}, rec.Steps...)
	return &snapshot, nil
}

func (f *fakeRqStore) ListByBatchForUpdate(spaceID, batchID string) ([]dbmodels.Requisition, error) {
	list := []dbmodels.Requisition{}
	for _, rec := range f.recs {
		if rec.BatchID == batchID {
			list = append(list, *rec)
		}
	}
	return list, nil
}

func (f *fakeRqStore) Update(spaceID, id string, updMap map[string]interface{}) error {
	return nil
}

func (f *fakeRqStore) CasUpdate(spaceID, id string, cond map[string]interface{}, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.recs[id]
	if !ok {
		return false, nil
	}
	if v, ok := cond["current_step"]; ok && v.(int) != rec.CurrentStep {
		return false, nil
	}
	if v, ok := cond["status"]; ok && v.(models.RqStatus) != rec.Status {
		return false, nil
	}
	if v, ok := cond["approval_status"]; ok && v.(models.RqApprovalStatus) != rec.ApprovalStatus {
		return false, nil
	}
	f.apply(rec, updMap)
	return true, nil
}

func (f *fakeRqStore) apply(rec *dbmodels.Requisition, updMap map[string]interface{}) {
	if v, ok := updMap["current_step"]; ok {
		rec.CurrentStep = v.(int)
	}
	if v, ok := updMap["status"]; ok {
		rec.Status = v.(models.RqStatus)
	}
	if v, ok := updMap["approval_status"]; ok {
		rec.ApprovalStatus = v.(models.RqApprovalStatus)
	}
	if v, ok := updMap["closure_reason"]; ok {
		rec.ClosureReason = v.(models.ClosureReason)
	}
}

func (f *fakeRqStore) findStep(stepID string) *dbmodels.ApprovalStep {
	for _, rec := range f.recs {
		for idx := range rec.Steps {
			if rec.Steps[idx].ID == stepID {
				return &rec.Steps[idx]
			}
		}
	}
	return nil
}

func (f *fakeRqStore) UpdateStepIf(spaceID, stepID string, fromStatus models.ApprovalStepStatus, updMap map[string]interface{}) (bool, error) {
	step := f.findStep(stepID)
	if step == nil || step.Status != fromStatus {
		return false, nil
	}
	f.applyStep(step, updMap)
	return true, nil
}

func (f *fakeRqStore) UpdateStep(spaceID, stepID string, updMap map[string]interface{}) error {
	step := f.findStep(stepID)
	if step != nil {
		f.applyStep(step, updMap)
	}
	return nil
}

func (f *fakeRqStore) applyStep(step *dbmodels.ApprovalStep, updMap map[string]interface{}) {
	if v, ok := updMap["status"]; ok {
		step.Status = v.(models.ApprovalStepStatus)
	}
	if v, ok := updMap["comment"]; ok {
		step.Comment = v.(string)
	}
	if v, ok := updMap["decided_at"]; ok {
		moment := v.(time.Time)
		step.DecidedAt = &moment
	}
	if v, ok := updMap["approver_id"]; ok {
		step.ApproverID = v.(string)
	}
	if v, ok := updMap["delegated_from_id"]; ok {
		step.DelegatedFromID = v.(string)
	}
	if v, ok := updMap["skipped"]; ok {
		step.Skipped = v.(bool)
	}
}

func (f *fakeRqStore) List(spaceID string, filter requisitionapimodels.RqFilter) ([]dbmodels.Requisition, error) {
	list := []dbmodels.Requisition{}
	for _, rec := range f.recs {
		list = append(list, *rec)
	}
	return list, nil
}

func (f *fakeRqStore) ListCount(spaceID string, filter requisitionapimodels.RqFilter) (int64, error) {
	return int64(len(f.recs)), nil
}

func (f *fakeRqStore) CountByBrandScope(spaceID, brandID string, since time.Time) (int64, error) {
	return int64(len(f.recs)), nil
}

func (f *fakeRqStore) ListPendingOlderThan(moment time.Time) ([]dbmodels.Requisition, error) {
	return nil, nil
}

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

type fakeTemplateStore struct {
	template *dbmodels.ApprovalTemplate
}

func (f fakeTemplateStore) Create(rec dbmodels.ApprovalTemplate) (string, error) { return "t1", nil }
func (f fakeTemplateStore) GetByID(spaceID, id string) (*dbmodels.ApprovalTemplate, error) {
	return f.template, nil
}
func (f fakeTemplateStore) List(spaceID string) ([]dbmodels.ApprovalTemplate, error) { return nil, nil }
func (f fakeTemplateStore) Delete(spaceID, id string) error                          { return nil }

type fakeOrgDir struct{}

func (f fakeOrgDir) ResolveRole(spaceID, roleKey, unitID string) ([]dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeOrgDir) GetManager(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeOrgDir) GetUser(spaceID, userID string) (*dbmodels.SpaceUser, error) {
	return nil, nil
}
func (f fakeOrgDir) GetBrand(spaceID, id string) (*dbmodels.Brand, error) {
	brand := &dbmodels.Brand{Name: "Acme", Code: "ACME"}
	brand.ID = id
	return brand, nil
}
func (f fakeOrgDir) GetStore(spaceID, id string) (*dbmodels.Store, error) {
	store := &dbmodels.Store{Name: "Центральный"}
	store.ID = id
	return store, nil
}
func (f fakeOrgDir) GetJobPosition(spaceID, id string) (*dbmodels.JobPosition, error) {
	position := &dbmodels.JobPosition{Name: "Продавец"}
	position.ID = id
	return position, nil
}
func (f fakeOrgDir) GetUnit(spaceID, id string) (*dbmodels.ManagementUnit, error) {
	unit := &dbmodels.ManagementUnit{Name: "Розница"}
	unit.ID = id
	return unit, nil
}

type fakeSequencer struct {
	counter int64
}

func (f *fakeSequencer) NextCode(spaceID, scope, prefix string, countExisting sequence.CountFunc) (string, bool, error) {
	f.counter++
	return sequence.FormatCode(prefix, f.counter), false, nil
}

type fakeResolver struct {
	chain []dbmodels.ApprovalStep
	err   error
}

func (f fakeResolver) Resolve(steps []dbmodels.TemplateStep, rqCtx approvalresolve.Context, manualFirstApproverID string) ([]dbmodels.ApprovalStep, error) {
	return f.chain, f.err
}

type fakeNotifier struct {
	events []notify.Event
}

func (f *fakeNotifier) Emit(event notify.Event) {
	f.events = append(f.events, event)
}

type testEnv struct {
	store    *fakeRqStore
	history  *fakeHistoryStore
	notifier *fakeNotifier
	handler  impl
}

func newTestEnv(resolver fakeResolver) *testEnv {
	env := &testEnv{
		store:    newFakeRqStore(),
		history:  &fakeHistoryStore{},
		notifier: &fakeNotifier{},
	}
	env.handler = impl{
		store:        env.store,
		historyStore: env.history,
		templateStore: fakeTemplateStore{
			template: &dbmodels.ApprovalTemplate{
				Steps: []dbmodels.TemplateStep{
					{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "user1"},
				},
			},
		},
		orgDir:    fakeOrgDir{},
		sequencer: &fakeSequencer{},
		resolver:  resolver,
		notifier:  env.notifier,
		tx: func(fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}
	return env
}

func (e *testEnv) addRec(id string, status models.RqStatus, currentStep int, steps ...dbmodels.ApprovalStep) {
	rec := &dbmodels.Requisition{
		Code:           "RQ-ACME-26-00001",
		BatchID:        "batch1",
		TotalHeadcount: 1,
		AuthorID:       "author",
		Status:         status,
		ApprovalStatus: models.RqApprovalPending,
		CurrentStep:    currentStep,
		Steps:          steps,
	}
	rec.ID = id
	rec.SpaceID = testSpace
	if status == models.RqStatusApproved || status == models.RqStatusPublished {
		rec.ApprovalStatus = models.RqApprovalApproved
	}
	e.store.recs[id] = rec
}

func awaitingStep(id string, order int, approverID string) dbmodels.ApprovalStep {
	step := dbmodels.ApprovalStep{
		StepOrder:    order,
		ApproverKind: models.ApproverSpecificUser,
		ApproverID:   approverID,
		Status:       models.AStepAwaiting,
	}
	step.ID = id
	return step
}

func TestCreate(t *testing.T) {
	createData := requisitionapimodels.RequisitionCreateData{
		RequisitionData: requisitionapimodels.RequisitionData{
			BrandID:          "brand1",
			JobPositionID:    "pos1",
			ManagementUnitID: "unit1",
		},
		Positions:  2,
		TemplateID: "t1",
	}

	t.Run("пачка экземпляров с общим batch_id", func(t *testing.T) {
		env := newTestEnv(fakeResolver{chain: []dbmodels.ApprovalStep{
			{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "user1", Status: models.AStepAwaiting},
		}})
		ids, err := env.handler.Create(testSpace, "author", createData)
		require.Nil(t, err)
		require.Len(t, ids, 2)

		first := env.store.recs[ids[0]]
		second := env.store.recs[ids[1]]
		require.Equal(t, first.BatchID, second.BatchID)
		require.Equal(t, 1, first.BatchIndex)
		require.Equal(t, 2, second.BatchIndex)
		require.Equal(t, 2, first.TotalHeadcount)
		require.Equal(t, 1, first.Headcount)
		require.NotEqual(t, first.Code, second.Code)
		require.Equal(t, models.RqStatusPendingApproval, first.Status)
		require.Equal(t, 1, first.CurrentStep)
		require.Len(t, first.Steps, 1)
		require.Equal(t, "user1", first.Steps[0].ApproverID)
	})

	t.Run("пустая цепочка - автосогласование", func(t *testing.T) {
		env := newTestEnv(fakeResolver{chain: nil})
		ids, err := env.handler.Create(testSpace, "author", createData)
		require.Nil(t, err)

		rec := env.store.recs[ids[0]]
		require.Equal(t, models.RqStatusApproved, rec.Status)
		require.Equal(t, models.RqApprovalAutoApproved, rec.ApprovalStatus)
		require.Equal(t, -1, rec.CurrentStep)
		require.Len(t, env.history.recs, 2)
		require.Equal(t, models.HActionAutoApproved, env.history.recs[0].Action)
	})

	t.Run("ошибка разрешения не создает записей", func(t *testing.T) {
		env := newTestEnv(fakeResolver{err: errs.New(errs.KindResolution, "нет согласующих")})
		_, err := env.handler.Create(testSpace, "author", createData)
		require.NotNil(t, err)
		require.Equal(t, errs.KindResolution, errs.KindOf(err))
		require.Len(t, env.store.recs, 0)
	})

	t.Run("черновик не запускает согласование", func(t *testing.T) {
		env := newTestEnv(fakeResolver{chain: []dbmodels.ApprovalStep{
			{StepOrder: 1, ApproverKind: models.ApproverSpecificUser, ApproverID: "user1", Status: models.AStepAwaiting},
		}})
		draftData := createData
		draftData.AsDraft = true
		ids, err := env.handler.Create(testSpace, "author", draftData)
		require.Nil(t, err)
		require.Equal(t, models.RqStatusDraft, env.store.recs[ids[0]].Status)
	})
}

func TestAct(t *testing.T) {
	approve := requisitionapimodels.ActData{Decision: models.DecisionApprove}
	reject := requisitionapimodels.ActData{Decision: models.DecisionReject, Reason: "нет бюджета"}

	t.Run("согласование продвигает указатель на следующий этап", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1,
			awaitingStep("s1", 1, "user1"),
			awaitingStep("s2", 2, "user2"),
		)
		err := env.handler.Act(testSpace, "rq1", "user1", models.SpaceUserRole, approve)
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.Equal(t, 2, rec.CurrentStep)
		require.Equal(t, models.AStepApproved, rec.Steps[0].Status)
		require.NotNil(t, rec.Steps[0].DecidedAt)
		require.Equal(t, models.RqStatusPendingApproval, rec.Status)
		require.Len(t, env.history.recs, 1)
		require.Equal(t, models.HActionApproved, env.history.recs[0].Action)
		require.True(t, rec.HasContiguousApprovedPrefix())
	})

	t.Run("согласование последнего этапа завершает цепочку", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 2,
			func() dbmodels.ApprovalStep {
				step := awaitingStep("s1", 1, "user1")
				step.Status = models.AStepApproved
				return step
			}(),
			awaitingStep("s2", 2, "user2"),
		)
		err := env.handler.Act(testSpace, "rq1", "user2", models.SpaceUserRole, approve)
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.Equal(t, -1, rec.CurrentStep)
		require.Equal(t, models.RqStatusApproved, rec.Status)
		require.Equal(t, models.RqApprovalApproved, rec.ApprovalStatus)
	})

	t.Run("отклонение делает заявку терминальной", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1,
			awaitingStep("s1", 1, "user1"),
			awaitingStep("s2", 2, "user2"),
		)
		err := env.handler.Act(testSpace, "rq1", "user1", models.SpaceUserRole, reject)
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.Equal(t, models.RqStatusCancelled, rec.Status)
		require.Equal(t, models.RqApprovalRejected, rec.ApprovalStatus)
		require.Equal(t, -1, rec.CurrentStep)
		require.Equal(t, "нет бюджета", rec.Steps[0].Comment)
		require.Len(t, env.history.recs, 1)
		require.Equal(t, models.HActionRejected, env.history.recs[0].Action)

		// решение по отмененной заявке недоступно
		err = env.handler.Act(testSpace, "rq1", "user2", models.SpaceUserRole, approve)
		require.NotNil(t, err)
		require.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("чужой пользователь не может решать этап", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Act(testSpace, "rq1", "stranger", models.SpaceUserRole, approve)
		require.NotNil(t, err)
		require.Equal(t, errs.KindAuthorization, errs.KindOf(err))
		require.Len(t, env.history.recs, 0)
	})

	t.Run("администратор пространства может решить любой этап", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Act(testSpace, "rq1", "admin", models.SpaceAdminRole, approve)
		require.Nil(t, err)
	})

	t.Run("устаревшее решение не записывается в историю", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		step := awaitingStep("s1", 1, "user1")
		step.Status = models.AStepApproved
		env.addRec("rq1", models.RqStatusPendingApproval, 1, step)
		err := env.handler.Act(testSpace, "rq1", "user1", models.SpaceUserRole, approve)
		require.NotNil(t, err)
		require.Equal(t, errs.KindStaleState, errs.KindOf(err))
		require.Len(t, env.history.recs, 0)
	})

	t.Run("пропущенные этапы не участвуют в продвижении", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		skipped := awaitingStep("s2", 2, "")
		skipped.Skipped = true
		env.addRec("rq1", models.RqStatusPendingApproval, 1,
			awaitingStep("s1", 1, "user1"),
			skipped,
			awaitingStep("s3", 3, "user3"),
		)
		err := env.handler.Act(testSpace, "rq1", "user1", models.SpaceUserRole, approve)
		require.Nil(t, err)
		require.Equal(t, 3, env.store.recs["rq1"].CurrentStep)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("публикация только после согласования", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Publish(testSpace, "rq1", "author")
		require.NotNil(t, err)
		require.Equal(t, errs.KindValidation, errs.KindOf(err))

		env.addRec("rq2", models.RqStatusApproved, -1)
		err = env.handler.Publish(testSpace, "rq2", "author")
		require.Nil(t, err)
		require.Equal(t, models.RqStatusPublished, env.store.recs["rq2"].Status)
		require.Equal(t, models.HActionPublished, env.history.recs[0].Action)
	})

	t.Run("ручное закрытие опубликованной заявки", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPublished, -1)
		err := env.handler.Close(testSpace, "rq1", "author", "передумали", models.ClosureManual)
		require.Nil(t, err)
		rec := env.store.recs["rq1"]
		require.Equal(t, models.RqStatusClosed, rec.Status)
		require.Equal(t, models.ClosureManual, rec.ClosureReason)

		// повторное закрытие - no-op
		err = env.handler.Close(testSpace, "rq1", "author", "", models.ClosureManual)
		require.Nil(t, err)
		require.Len(t, env.history.recs, 1)
	})

	t.Run("отмена возможна до публикации", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Cancel(testSpace, "rq1", "author")
		require.Nil(t, err)
		require.Equal(t, models.RqStatusCancelled, env.store.recs["rq1"].Status)

		env.addRec("rq2", models.RqStatusPublished, -1)
		err = env.handler.Cancel(testSpace, "rq2", "author")
		require.NotNil(t, err)
		require.Equal(t, errs.KindValidation, errs.KindOf(err))
	})

	t.Run("заявка не найдена", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		_, err := env.handler.GetByID(testSpace, "missing")
		require.NotNil(t, err)
		require.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})
}

func TestSubmit(t *testing.T) {
	t.Run("черновик уходит на согласование", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusDraft, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Submit(testSpace, "rq1", "author")
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.Equal(t, models.RqStatusPendingApproval, rec.Status)
		require.Equal(t, 1, rec.CurrentStep)
		require.Len(t, env.history.recs, 1)
		require.Equal(t, models.HActionSubmitted, env.history.recs[0].Action)
		require.Len(t, env.notifier.events, 1)
		require.Equal(t, notify.EventRequisitionStepAdvanced, env.notifier.events[0].Type)

		// после отправки решение согласующего доступно
		err = env.handler.Act(testSpace, "rq1", "user1", models.SpaceUserRole, requisitionapimodels.ActData{Decision: models.DecisionApprove})
		require.Nil(t, err)
	})

	t.Run("отправить можно только черновик", func(t *testing.T) {
		env := newTestEnv(fakeResolver{})
		env.addRec("rq1", models.RqStatusPendingApproval, 1, awaitingStep("s1", 1, "user1"))
		err := env.handler.Submit(testSpace, "rq1", "author")
		require.NotNil(t, err)
		require.Equal(t, errs.KindValidation, errs.KindOf(err))
		require.Len(t, env.history.recs, 0)
	})
}

func TestReresolve(t *testing.T) {
	t.Run("пройденные этапы не меняются, ожидающие переразрешаются", func(t *testing.T) {
		env := newTestEnv(fakeResolver{chain: []dbmodels.ApprovalStep{
			{StepOrder: 2, ApproverKind: models.ApproverSpecificUser, ApproverID: "backup2", DelegatedFromID: "user2", Status: models.AStepAwaiting},
		}})
		done := awaitingStep("s1", 1, "user1")
		done.Status = models.AStepApproved
		env.addRec("rq1", models.RqStatusPendingApproval, 2,
			done,
			awaitingStep("s2", 2, "user2"),
		)
		err := env.handler.Reresolve(testSpace, "rq1", "admin")
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.Equal(t, "user1", rec.Steps[0].ApproverID)
		require.Equal(t, "backup2", rec.Steps[1].ApproverID)
		require.Equal(t, "user2", rec.Steps[1].DelegatedFromID)
		require.Len(t, env.history.recs, 1)
		require.Equal(t, models.HActionReresolved, env.history.recs[0].Action)
	})

	t.Run("пропуск текущего этапа продвигает указатель", func(t *testing.T) {
		// держатель роли текущего этапа исчез, этап пропускается,
		// указатель переходит на следующий непропущенный этап
		env := newTestEnv(fakeResolver{chain: []dbmodels.ApprovalStep{
			{StepOrder: 1, ApproverKind: models.ApproverRoleInUnit, RoleKey: "hr_director", Skipped: true, Status: models.AStepAwaiting},
			{StepOrder: 2, ApproverKind: models.ApproverSpecificUser, ApproverID: "user2", Status: models.AStepAwaiting},
		}})
		env.addRec("rq1", models.RqStatusPendingApproval, 1,
			awaitingStep("s1", 1, "gone"),
			awaitingStep("s2", 2, "user2"),
		)
		err := env.handler.Reresolve(testSpace, "rq1", "admin")
		require.Nil(t, err)

		rec := env.store.recs["rq1"]
		require.True(t, rec.Steps[0].Skipped)
		require.Equal(t, 2, rec.CurrentStep)
		require.NotNil(t, rec.CurrentStepRec())
		require.Equal(t, models.RqStatusPendingApproval, rec.Status)

		// заявка не застревает: согласующий нового текущего этапа завершает цепочку
		err = env.handler.Act(testSpace, "rq1", "user2", models.SpaceUserRole, requisitionapimodels.ActData{Decision: models.DecisionApprove})
		require.Nil(t, err)
		require.Equal(t, models.RqStatusApproved, env.store.recs["rq1"].Status)
	})
}
