package banks

import (
	"context"
	"fmt"
	"testing"
	"kreditradar-backend/lib/scrapers/bank99"
	"kreditradar-backend/lib/scrapers/bankaustria"
	"kreditradar-backend/lib/scrapers/erste"
	"kreditradar-backend/services/ratestore"

	"github.com/stretchr/testify/require"
)

type fakeBank99 struct {
	offer bank99.Offer
	err   error
}

func (f fakeBank99) FetchOffer(context.Context, float64, int) (bank99.Offer, error) {
	return f.offer, f.err
}

type fakeErste struct {
	offer erste.Offer
	err   error
}

func (f fakeErste) FetchOffer(context.Context, float64, int) (erste.Offer, error) {
	return f.offer, f.err
}

type fakeBankAustria struct {
	offer bankaustria.Offer
	err   error
}

func (f fakeBankAustria) FetchOffer(context.Context, float64, int) (bankaustria.Offer, error) {
	return f.offer, f.err
}

type fakeOfferStore struct {
	saved [][]ratestore.BankOffer
	err   error
}

func (f *fakeOfferStore) SaveBankOffers(_ context.Context, offers []ratestore.BankOffer) error {
	f.saved = append(f.saved, offers)
	return f.err
}

func TestCollectOffersAllBanks(t *testing.T) {
	store := &fakeOfferStore{}
	service := Service{
		Bank99:      fakeBank99{offer: bank99.Offer{Finanzierungsbetrag: 400000, Rate: 2245.67, AnfangsSollZinssatz: 3.25, EffektivZinssatz: 3.58, ZuZahlenderGesamtbetrag: 673701}},
		Erste:       fakeErste{offer: erste.Offer{InstallmentAmount: 1623, FixZinssatz: 3.2, EffektivZinssatz: 3.76, Gesamtbetrag: 486900}},
		BankAustria: fakeBankAustria{offer: bankaustria.Offer{Auszahlungsbetrag: 295000, Rate: 1675.43, Sollzinssatz: 3, Effektivzinssatz: 3.342, Gesamtkreditbetrag: 502629}},
		Store:       store,
	}

	offers, err := service.CollectOffers(context.Background(), 500000, 25)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	require.Len(t, store.saved, 1)

	require.Equal(t, "bank99", offers[0].BankName)
	require.Equal(t, "erste", offers[1].BankName)
	require.Equal(t, "bankaustria", offers[2].BankName)
	require.Equal(t, 300, offers[0].DurationMonths)
	require.Equal(t, 2245.67, offers[0].MonthlyRate.Value)
	require.True(t, offers[0].MonthlyRate.Known)
	require.Equal(t, "3,25 % p.a.", offers[0].NominalRate)
	require.Equal(t, "3,76 % p.a.", offers[1].EffectiveRate)
}

func TestCollectOffersFailingBankIsSkipped(t *testing.T) {
	store := &fakeOfferStore{}
	service := Service{
		Bank99:      fakeBank99{err: fmt.Errorf("timeout")},
		Erste:       fakeErste{offer: erste.Offer{InstallmentAmount: 1623}},
		BankAustria: fakeBankAustria{err: fmt.Errorf("status \"error\"")},
		Store:       store,
	}

	offers, err := service.CollectOffers(context.Background(), 500000, 25)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "erste", offers[0].BankName)
}

func TestCollectOffersNoBanksNothingPersisted(t *testing.T) {
	store := &fakeOfferStore{}
	service := Service{
		Bank99:      fakeBank99{err: fmt.Errorf("down")},
		Erste:       fakeErste{err: fmt.Errorf("down")},
		BankAustria: fakeBankAustria{err: fmt.Errorf("down")},
		Store:       store,
	}

	offers, err := service.CollectOffers(context.Background(), 500000, 25)
	require.NoError(t, err)
	require.Empty(t, offers)
	require.Empty(t, store.saved)
}

func TestCollectOffersZeroFieldsStayUnknown(t *testing.T) {
	store := &fakeOfferStore{}
	service := Service{
		Bank99:      fakeBank99{err: fmt.Errorf("down")},
		Erste:       fakeErste{offer: erste.Offer{InstallmentAmount: 1500}},
		BankAustria: fakeBankAustria{err: fmt.Errorf("down")},
		Store:       store,
	}

	offers, err := service.CollectOffers(context.Background(), 500000, 25)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	// the legend carried no total, so the amount is unknown rather than 0
	require.False(t, offers[0].TotalAmount.Known)
	require.Empty(t, offers[0].EffectiveRate)
}
