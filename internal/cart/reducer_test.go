package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/catalog"
)

var (
	nasiGoreng = catalog.Product{ID: 1, Name: "Nasi Goreng", Price: 15000}
	mieAyam    = catalog.Product{ID: 2, Name: "Mie Ayam", Price: 12000}
	esTeh      = catalog.Product{ID: 3, Name: "Es Teh", Price: 3000}
)

func TestScenarios(t *testing.T) {
	t.Run("add to empty cart", func(t *testing.T) {
		c := Add(Cart{}, nasiGoreng)

		assert.Equal(t, []Line{{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 1}}, c.Lines())
		assert.Equal(t, int64(15000), Total(c))
	})

	t.Run("add same product merges quantity", func(t *testing.T) {
		c := Add(FromLines(Line{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 1}), nasiGoreng)

		assert.Equal(t, []Line{{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 2}}, c.Lines())
		assert.Equal(t, int64(30000), Total(c))
	})

	t.Run("remove one decrements", func(t *testing.T) {
		c := RemoveOne(FromLines(Line{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 2}), 1)

		assert.Equal(t, []Line{{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 1}}, c.Lines())
		assert.Equal(t, int64(15000), Total(c))
	})

	t.Run("remove last unit drops the line", func(t *testing.T) {
		c := RemoveOne(FromLines(Line{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 1}), 1)

		assert.True(t, c.IsEmpty())
		assert.Empty(t, c.Lines())
		assert.Equal(t, int64(0), Total(c))
	})

	t.Run("remove unknown id is a no-op", func(t *testing.T) {
		c := RemoveOne(Cart{}, 99)

		assert.True(t, c.IsEmpty())
		assert.Equal(t, int64(0), Total(c))
	})

	t.Run("first-seen product stays first", func(t *testing.T) {
		c := Add(Add(Add(Cart{}, nasiGoreng), mieAyam), nasiGoreng)

		assert.Equal(t, []Line{
			{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 2},
			{ProductID: 2, Name: "Mie Ayam", Price: 12000, Quantity: 1},
		}, c.Lines())
		assert.Equal(t, int64(42000), Total(c))
	})
}

func TestAdd_TwiceAddsTwo(t *testing.T) {
	base := Replay(ItemAdded{mieAyam}, ItemAdded{esTeh}, ItemAdded{esTeh})

	for _, p := range []catalog.Product{nasiGoreng, mieAyam, esTeh} {
		before := base.Quantity(p.ID)
		after := Add(Add(base, p), p)
		assert.Equal(t, before+2, after.Quantity(p.ID), "product %d", p.ID)
	}
}

func TestRemoveOne_DrainsThenNoOp(t *testing.T) {
	c := Replay(ItemAdded{nasiGoreng}, ItemAdded{mieAyam}, ItemAdded{mieAyam}, ItemAdded{mieAyam})

	for n := c.Quantity(2); n > 0; n-- {
		c = RemoveOne(c, 2)
	}
	_, ok := c.Line(2)
	require.False(t, ok)

	again := RemoveOne(c, 2)
	assert.Equal(t, c.Lines(), again.Lines())
	assert.Equal(t, 1, again.Quantity(1))
}

func TestAdd_FreezesPrice(t *testing.T) {
	p := nasiGoreng
	c := Add(Cart{}, p)

	p.Price = 99999
	p.Name = "renamed"
	c = Add(c, p)

	line, ok := c.Line(1)
	require.True(t, ok)
	assert.Equal(t, "Nasi Goreng", line.Name)
	assert.Equal(t, int64(15000), line.Price)
	assert.Equal(t, 2, line.Quantity)
}

func TestReducers_DoNotMutateInput(t *testing.T) {
	original := Replay(ItemAdded{nasiGoreng}, ItemAdded{mieAyam})
	snapshot := original.Lines()

	_ = Add(original, nasiGoreng)
	_ = Add(original, esTeh)
	_ = RemoveOne(original, 2)
	_ = RemoveOne(original, 1)

	assert.Equal(t, snapshot, original.Lines())

	lines := original.Lines()
	lines[0].Quantity = 100
	assert.Equal(t, 1, original.Quantity(1))
}

func TestReachableCartsKeepInvariants(t *testing.T) {
	products := []catalog.Product{nasiGoreng, mieAyam, esTeh}
	rng := rand.New(rand.NewSource(42))

	var c Cart
	for step := 0; step < 2000; step++ {
		p := products[rng.Intn(len(products))]
		if rng.Intn(3) == 0 {
			c = Apply(c, OneRemoved{ProductID: p.ID})
		} else {
			c = Apply(c, ItemAdded{Product: p})
		}

		seen := make(map[int64]bool)
		var want int64
		for _, l := range c.Lines() {
			require.False(t, seen[l.ProductID], "duplicate line for %d at step %d", l.ProductID, step)
			seen[l.ProductID] = true
			require.GreaterOrEqual(t, l.Quantity, 1, "step %d", step)
			want += l.Price * int64(l.Quantity)
		}
		require.Equal(t, want, Total(c), "step %d", step)
	}
}

func TestTotal_OrderIndependent(t *testing.T) {
	lines := []Line{
		{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 2},
		{ProductID: 2, Name: "Mie Ayam", Price: 12000, Quantity: 1},
		{ProductID: 3, Name: "Es Teh", Price: 3000, Quantity: 4},
	}
	want := Total(FromLines(lines...))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Line(nil), lines...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, Total(FromLines(shuffled...)))
	}
	assert.Equal(t, int64(54000), want)
}

func TestLine_Product(t *testing.T) {
	l := Line{ProductID: 4, Name: "Sate Ayam", Price: 20000, Quantity: 3}

	assert.Equal(t, catalog.Product{ID: 4, Name: "Sate Ayam", Price: 20000}, l.Product())
	assert.Equal(t, int64(60000), l.Subtotal())
}

func TestFromLines_KeepsInvariants(t *testing.T) {
	input := []Line{
		{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 1},
		{ProductID: 2, Name: "Mie Ayam", Price: 12000, Quantity: 0},
		{ProductID: 3, Name: "Es Teh", Price: 3000, Quantity: -2},
		{ProductID: 1, Name: "Nasi Goreng Spesial", Price: 25000, Quantity: 2},
	}

	c := FromLines(input...)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, Line{ProductID: 1, Name: "Nasi Goreng", Price: 15000, Quantity: 3}, c.Lines()[0])
	assert.Equal(t, int64(45000), Total(c))
	assert.Equal(t, 1, input[0].Quantity, "input lines are not modified")

	c = Add(c, nasiGoreng)
	assert.Equal(t, 4, c.Quantity(1))
	assert.Equal(t, int64(60000), Total(c))

	assert.True(t, FromLines(Line{ProductID: 2, Quantity: 0}).IsEmpty())
}
