package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("query command", func() {
	When("the query type is unknown", func() {
		It("ends with an error before trying to resolve anything", func() {
			c := NewQueryCommand()
			c.SetArgs([]string{"--type", "X", "example.com"})

			err := c.Execute()
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("unknown query type 'X'"))
		})
	})
})
