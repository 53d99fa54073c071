package experiment_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/waterrocket/internal/dynamo"
	"github.com/san-kum/waterrocket/internal/experiment"
	"github.com/san-kum/waterrocket/internal/metrics"
	"github.com/san-kum/waterrocket/internal/physics"
)

func run(model string, d physics.Design) *dynamo.Result {
	res, err := experiment.Run(context.Background(), model, d, dynamo.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return res
}

func phasePath(res *dynamo.Result) []dynamo.Phase {
	var path []dynamo.Phase
	for _, s := range res.Samples {
		if len(path) == 0 || path[len(path)-1] != s.Phase {
			path = append(path, s.Phase)
		}
	}
	return path
}

var _ = Describe("Flight scenarios", func() {
	var d physics.Design

	BeforeEach(func() {
		d = physics.DefaultDesign()
	})

	Context("default rocket, vertical", func() {
		var res *dynamo.Result

		BeforeEach(func() {
			res = run("vertical", d)
		})

		It("climbs and empties before it lands", func() {
			Expect(res.Metrics[metrics.NameMaxHeight]).To(BeNumerically(">", 0))
			Expect(res.Metrics[metrics.NameMaxHeight]).To(BeNumerically("~", 21.19, 0.05))
			Expect(res.Metrics[metrics.NameTimeToEmpty]).To(BeNumerically("<", res.Metrics[metrics.NameFlightTime]))
			Expect(res.Metrics[metrics.NameFlightTime]).To(BeNumerically("~", 4.285, 0.01))
		})

		It("empties inside the launch tube", func() {
			Expect(res.Metrics[metrics.NameTimeToEmpty]).To(BeNumerically("~", 0.041, 0.002))
			Expect(phasePath(res)).To(Equal([]dynamo.Phase{dynamo.PhaseLaunchTube, dynamo.PhaseBallistic}))
			Expect(res.Metrics[metrics.NameTubeExitSpeed]).To(BeNumerically(">", 0))
		})

		It("never ranges sideways", func() {
			Expect(res.Metrics[metrics.NameMaxRange]).To(BeZero())
		})
	})

	It("accepts model aliases", func() {
		a := run("1d", d)
		b := run("vertical", d)
		Expect(a.Model).To(Equal("vertical"))
		Expect(a.Samples).To(HaveLen(len(b.Samples)))
	})

	It("has a single interior optimum in water volume", func() {
		volumes := []float64{0.3, 0.5, 0.7, 1.0}
		heights := make([]float64, len(volumes))
		for i, v := range volumes {
			d.WaterLiters = v
			heights[i] = run("vertical", d).Metrics[metrics.NameMaxHeight]
		}

		Expect(heights[0]).To(BeNumerically("<", heights[1]))
		Expect(heights[1]).To(BeNumerically("<", heights[2]))
		Expect(heights[2]).To(BeNumerically(">", heights[3]))
	})

	It("climbs higher with more pressure", func() {
		prev := 0.0
		for _, psi := range []float64{40, 60, 80, 100} {
			d.PressurePSI = psi
			h := run("vertical", d).Metrics[metrics.NameMaxHeight]
			Expect(h).To(BeNumerically(">", prev), "at %v psi", psi)
			prev = h
		}
	})

	It("has a unimodal range curve in launch angle", func() {
		angles := []float64{30, 45, 60, 75, 90}
		ranges := make([]float64, len(angles))
		for i, a := range angles {
			d.LaunchAngleDeg = a
			res := run("planar", d)
			Expect(res.Last().Phase).To(Equal(dynamo.PhaseLanded))
			ranges[i] = res.Metrics[metrics.NameMaxRange]
		}

		Expect(ranges[len(ranges)-1]).To(Equal(0.0))
		Expect(ranges[0]).To(BeNumerically("~", 27.83, 0.1))

		// rises then falls, with either side possibly empty
		i := 0
		for i+1 < len(ranges) && ranges[i+1] >= ranges[i] {
			i++
		}
		for ; i+1 < len(ranges); i++ {
			Expect(ranges[i+1]).To(BeNumerically("<=", ranges[i]))
		}
	})

	It("follows tube, ballistic, landed at 45 degrees", func() {
		res := run("planar", d)
		Expect(phasePath(res)).To(Equal([]dynamo.Phase{
			dynamo.PhaseLaunchTube, dynamo.PhaseBallistic, dynamo.PhaseLanded,
		}))
		Expect(res.Last().Y).To(BeZero())
	})

	It("rejects a full bottle at the boundary", func() {
		d.WaterLiters = d.BottleLiters
		_, err := experiment.Run(context.Background(), "vertical", d, dynamo.DefaultConfig())
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})

	It("rejects unknown models", func() {
		_, err := experiment.Run(context.Background(), "orbital", d, dynamo.DefaultConfig())
		Expect(errors.Is(err, dynamo.ErrUnknownModel)).To(BeTrue())
	})

	It("runs many designs concurrently in order", func() {
		designs := make([]physics.Design, 0, 4)
		for _, psi := range []float64{40, 60, 80, 100} {
			dd := d
			dd.PressurePSI = psi
			designs = append(designs, dd)
		}

		results, err := experiment.RunMany(context.Background(), "vertical", designs, dynamo.DefaultConfig(), 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(designs)))

		for i, res := range results {
			single := run("vertical", designs[i])
			Expect(res.Metrics[metrics.NameMaxHeight]).To(Equal(single.Metrics[metrics.NameMaxHeight]))
		}
	})
})
