package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplaceBreaks(t *testing.T) {
	require.Equal(t, "a\nb\nc\nd", ReplaceBreaks("a<br>b<BR/>c<br />d"))
}

const fixture = `
<div class="discussion-container">
	<div class="comment-container"><div class="comment-content">top</div>
		<div class="comment-replies">
			<div class="comment-container"><div class="comment-content">reply</div></div>
		</div>
	</div>
	<div class="wrapper"><div class="comment-container">nested</div></div>
</div>`

func TestFragmentImplementationsAgree(t *testing.T) {
	parsed, err := Parse(fixture)
	if err != nil {
		t.Fatal(err)
	}
	built := El("html", "",
		El("div", "discussion-container",
			El("div", "comment-container",
				TextEl("div", "comment-content", "top"),
				El("div", "comment-replies",
					El("div", "comment-container", TextEl("div", "comment-content", "reply")),
				),
			),
			El("div", "wrapper", TextEl("div", "comment-container", "nested")),
		),
	)

	for name, root := range map[string]Fragment{"goquery": parsed, "element": built} {
		t.Run(name, func(t *testing.T) {
			container, ok := root.Find("div", "discussion-container")
			require.True(t, ok)

			require.Len(t, container.Children("div", "comment-container"), 1)
			require.Len(t, container.FindAll("div", "comment-container"), 3)

			content, ok := container.Find("div", "comment-content")
			require.True(t, ok)
			require.Equal(t, "top", content.Text())

			_, ok = container.Find("span", "")
			require.False(t, ok)

			require.True(t, container.HasClass("discussion-container"))
			require.False(t, container.HasClass("comment-container"))
		})
	}
}

func TestElementAttrAndHtml(t *testing.T) {
	img := El("img", "").WithAttr("src", "/assets/media/exam-media/1.png")
	p := El("p", "card-text", TextEl("span", "", "a < b"), img)

	src, ok := img.Attr("src")
	require.True(t, ok)
	require.Equal(t, "/assets/media/exam-media/1.png", src)
	_, ok = img.Attr("alt")
	require.False(t, ok)

	require.Equal(t, `<span>a &lt; b</span><img src="/assets/media/exam-media/1.png"></img>`, p.InnerHTML())
}
