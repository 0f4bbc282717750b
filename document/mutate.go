package document

import (
	"fmt"

	"github.com/tsawler/pdfdoc/contentstream"
	"github.com/tsawler/pdfdoc/core"
)

// xobjectName is the resource name an inserted object is bound under
func xobjectName(id core.ObjectID) string {
	return fmt.Sprintf("X%d", id.Number)
}

// InsertImage draws an image XObject on a page. position is the lower-left
// corner and size the width and height, both in user space units.
func (d *Document) InsertImage(pageID core.ObjectID, image *core.Stream, position, size [2]float64) error {
	if image == nil {
		return fmt.Errorf("insert image: stream is nil")
	}
	content, err := d.GetAndDecodePageContent(pageID)
	if err != nil {
		return err
	}
	id := d.AddObject(image)
	name := xobjectName(id)
	if err := d.AddXObject(pageID, name, id); err != nil {
		d.DeleteObject(id)
		return err
	}

	content.Append(
		contentstream.NewOperation("q"),
		contentstream.NewOperation("cm",
			core.Real(size[0]), core.Int(0), core.Int(0), core.Real(size[1]),
			core.Real(position[0]), core.Real(position[1])),
		contentstream.NewOperation("Do", core.Name(name)),
		contentstream.NewOperation("Q"),
	)
	return d.saveContent(pageID, content)
}

// InsertFormObject draws a form XObject over the whole page. The existing
// content is wrapped in q/Q so its graphics state does not leak into the
// form.
func (d *Document) InsertFormObject(pageID core.ObjectID, form *core.Stream) error {
	if form == nil {
		return fmt.Errorf("insert form: stream is nil")
	}
	content, err := d.GetAndDecodePageContent(pageID)
	if err != nil {
		return err
	}
	id := d.AddObject(form)
	name := xobjectName(id)

	content.Prepend(contentstream.NewOperation("q"))
	content.Append(
		contentstream.NewOperation("Q"),
		contentstream.NewOperation("Do", core.Name(name)),
	)
	if err := d.AddXObject(pageID, name, id); err != nil {
		d.DeleteObject(id)
		return err
	}
	return d.saveContent(pageID, content)
}

// AddToPageContent appends content as a new stream of the page
func (d *Document) AddToPageContent(pageID core.ObjectID, content *contentstream.Content) error {
	data, err := content.Encode()
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	return d.AddPageContents(pageID, data)
}

func (d *Document) saveContent(pageID core.ObjectID, content *contentstream.Content) error {
	data, err := content.Encode()
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	return d.ChangePageContent(pageID, data)
}
