package main_test

import (
	"github.com/frahmantamala/chat-admin/cmd"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("command tree", func() {
	DescribeTable("registers",
		func(path []string) {
			found, rest, err := cmd.Root().Find(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rest).To(BeEmpty())
			Expect(found.Name()).To(Equal(path[len(path)-1]))
		},
		Entry("server", []string{"server"}),
		Entry("migrate", []string{"migrate"}),
		Entry("seed", []string{"seed"}),
		Entry("version-check run", []string{"version-check", "run"}),
		Entry("version-check schedule", []string{"version-check", "schedule"}),
		Entry("users info", []string{"users", "info"}),
		Entry("users action", []string{"users", "action"}),
		Entry("events tail", []string{"events", "tail"}),
	)

	It("requires exactly two arguments for users action", func() {
		action, _, err := cmd.Root().Find([]string{"users", "action"})
		Expect(err).NotTo(HaveOccurred())
		Expect(action.Args(action, []string{"delete"})).To(HaveOccurred())
		Expect(action.Args(action, []string{"delete", "u1"})).To(Succeed())
	})

	It("exposes the confirmation and token flags", func() {
		action, _, err := cmd.Root().Find([]string{"users", "action"})
		Expect(err).NotTo(HaveOccurred())
		Expect(action.Flags().Lookup("yes")).NotTo(BeNil())
		Expect(action.InheritedFlags().Lookup("token")).NotTo(BeNil())
		Expect(cmd.Root().PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
