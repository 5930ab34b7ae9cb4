package shares

import (
	"context"
	"errors"
	"testing"
	"time"

	"vidalink/internal/domain/healthevents"
	"vidalink/internal/domain/patients"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProfiles map[string]patients.Patient

func (p testProfiles) PublicProfile(_ context.Context, id string) (patients.Patient, error) {
	pt, ok := p[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return pt, nil
}

type countingSigner struct {
	calls int
}

func (s *countingSigner) SignDownload(_ context.Context, doc healthevents.Document) (string, error) {
	s.calls++
	if doc.FilePath == "" {
		return "", errors.New("document has no object key")
	}
	return "https://signed.test/" + doc.FilePath, nil
}

func newTestProjector(signer DocumentSigner) (*Projector, *testEvents) {
	events := &testEvents{byID: map[string]healthevents.HealthEvent{
		"e1": {ID: "e1", OwnerID: "p1", Title: "Hemograma", Documents: []healthevents.Document{
			{ID: "d1", FilePath: "p1/hemo.pdf", OriginalName: "hemo.pdf", FileType: healthevents.FileTypePDF},
		}},
		"e2": {ID: "e2", OwnerID: "p1", Title: "Cardiología"},
		"e3": {ID: "e3", OwnerID: "p2", Title: "Gripe"},
	}}
	birth := time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC)
	profiles := testProfiles{"p1": {ID: "p1", FullName: "Ana Souza", BirthDate: &birth}}
	return NewProjector(healthevents.NewService(events), profiles, signer, nil), events
}

func TestProject_ExportKeepsViewWhenADocumentCannotBeSigned(t *testing.T) {
	signer := &countingSigner{}
	p, events := newTestProjector(signer)

	e1 := events.byID["e1"]
	e1.Documents = append(e1.Documents, healthevents.Document{ID: "d2", OriginalName: "sin-archivo.pdf"})
	events.byID["e1"] = e1

	view, err := p.Project(context.Background(), AuthorizedAccess{
		OwnerID: "p1", RecordIDs: []string{"e1", "e2"}, AccessType: AccessExport,
	})
	require.NoError(t, err)

	require.Len(t, view.Events, 2)
	docs := view.Events[0].Documents
	require.Len(t, docs, 2)
	assert.Equal(t, "https://signed.test/p1/hemo.pdf", docs[0].DownloadURL)
	assert.Equal(t, "d2", docs[1].ID)
	assert.Empty(t, docs[1].DownloadURL)
	assert.Equal(t, 2, signer.calls)
	require.NotNil(t, view.Export)

	// la descarga puntual sí informa el error
	_, err = p.DocumentURL(context.Background(), AuthorizedAccess{
		OwnerID: "p1", RecordIDs: []string{"e1"}, AccessType: AccessExport,
	}, "d2")
	assert.Error(t, err)
}

func TestProject_ReadViewHasNoExportFields(t *testing.T) {
	signer := &countingSigner{}
	p, _ := newTestProjector(signer)

	view, err := p.Project(context.Background(), AuthorizedAccess{
		Token: "ABCD1234", OwnerID: "p1", RecordIDs: []string{"e2", "e1"}, AccessType: AccessRead,
	})
	require.NoError(t, err)

	require.Len(t, view.Events, 2)
	assert.Equal(t, "e2", view.Events[0].ID)
	assert.Equal(t, "e1", view.Events[1].ID)
	assert.Nil(t, view.Export)
	assert.Empty(t, view.Events[1].Documents[0].DownloadURL)
	assert.Zero(t, signer.calls)

	require.NotNil(t, view.Patient)
	assert.Equal(t, "1990-05-04", view.Patient.BirthDate)
	assert.NotNil(t, view.Patient.Allergies)
	assert.Equal(t, "ABCD1234", view.ShareInfo.Token)
}

func TestProject_ExportViewSignsDocuments(t *testing.T) {
	signer := &countingSigner{}
	p, _ := newTestProjector(signer)

	view, err := p.Project(context.Background(), AuthorizedAccess{
		OwnerID: "p1", RecordIDs: []string{"e1"}, AccessType: AccessExport,
	})
	require.NoError(t, err)

	require.NotNil(t, view.Export)
	assert.Equal(t, "https://signed.test/p1/hemo.pdf", view.Events[0].Documents[0].DownloadURL)
	assert.Equal(t, 1, signer.calls)
}

func TestProject_SkipsDeletedAndForeignRecords(t *testing.T) {
	p, events := newTestProjector(nil)
	delete(events.byID, "e1")

	view, err := p.Project(context.Background(), AuthorizedAccess{
		OwnerID: "p1", RecordIDs: []string{"e1", "e2", "e3"}, AccessType: AccessRead,
	})
	require.NoError(t, err)
	require.Len(t, view.Events, 1)
	assert.Equal(t, "e2", view.Events[0].ID)
}

func TestProject_MissingProfileStillProjects(t *testing.T) {
	p, _ := newTestProjector(nil)

	view, err := p.Project(context.Background(), AuthorizedAccess{
		OwnerID: "p2", RecordIDs: []string{"e3"}, AccessType: AccessRead,
	})
	require.NoError(t, err)
	assert.Nil(t, view.Patient)
	assert.Len(t, view.Events, 1)
}

func TestExportOperations_RecheckAccessType(t *testing.T) {
	signer := &countingSigner{}
	p, _ := newTestProjector(signer)
	ctx := context.Background()
	read := AuthorizedAccess{OwnerID: "p1", RecordIDs: []string{"e1"}, AccessType: AccessRead}

	_, err := p.ExportURL(ctx, read, healthevents.Document{ID: "d1", FilePath: "p1/hemo.pdf"})
	assert.ErrorIs(t, err, ErrExportNotPermitted)

	_, err = p.DocumentURL(ctx, read, "d1")
	assert.ErrorIs(t, err, ErrExportNotPermitted)
	assert.Zero(t, signer.calls)

	export := read
	export.AccessType = AccessExport
	url, err := p.DocumentURL(ctx, export, "d1")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.test/p1/hemo.pdf", url)

	_, err = p.DocumentURL(ctx, export, "not-shared")
	assert.ErrorIs(t, err, ErrNotFound)

	// sin signer configurado no hay exportación posible
	unsigned, _ := newTestProjector(nil)
	_, err = unsigned.ExportURL(ctx, export, healthevents.Document{ID: "d1"})
	assert.ErrorIs(t, err, ErrExportNotPermitted)
}
