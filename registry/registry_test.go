package registry_test

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopoisson/registry"
)

type alpha struct{}
type beta struct{}

var (
	alphaType = reflect.TypeOf(alpha{})
	betaType  = reflect.TypeOf(beta{})
)

func TestRegistry_Expose(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Expose(alphaType, "alpha"))

	name, err := r.Lookup(alphaType)
	require.NoError(t, err)
	assert.Equal(t, "alpha", name)

	typ, err := r.LookupName("alpha")
	require.NoError(t, err)
	assert.Equal(t, alphaType, typ)

	assert.Error(t, r.Expose(alphaType, "other"))
	assert.Error(t, r.Expose(betaType, "alpha"))
	assert.Equal(t, []string{"alpha"}, r.Names())
}

func TestRegistry_LookupMissing(t *testing.T) {
	r := registry.New()
	_, err := r.Lookup(betaType)
	var te *registry.TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "the type 'registry_test.beta' has not been exposed", err.Error())

	_, err = r.LookupName("beta")
	assert.True(t, errors.As(err, &te))
}

func TestRegistry_Generic(t *testing.T) {
	r := registry.New()
	pack := []reflect.Type{alphaType, betaType}
	require.NoError(t, r.ExposeGeneric("pair", pack, reflect.TypeOf(0)))
	assert.Error(t, r.ExposeGeneric("pair", pack, reflect.TypeOf(0)))

	typ, err := r.LookupGeneric("pair", pack)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(0), typ)

	_, err = r.LookupGeneric("pair", []reflect.Type{betaType, alphaType})
	var te *registry.TypeError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "the generic type getter 'pair' has not been instantiated with the type pack [registry_test.beta, registry_test.alpha]", err.Error())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.New()
	types := []reflect.Type{alphaType, betaType, reflect.TypeOf(0), reflect.TypeOf("")}
	names := []string{"a", "b", "c", "d"}
	var wg sync.WaitGroup
	for i := range types {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Expose(types[i], names[i]))
			_, err := r.Lookup(types[i])
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	got := r.Names()
	sort.Strings(got)
	assert.Equal(t, names, got)
}
